package core

import "testing"

// TestTaskNode_NotifyUnderflowPanics verifies spec-kind WaitCountUnderflow
// Given: A node built directly with a wait count of zero (dispatches
// immediately; TaskQueue and TaskList never do this themselves, since
// both always reserve one extra count for their own explicit release)
// When: Notify is called on it anyway
// Then: it panics with a *SchedulerError of kind WaitCountUnderflow
func TestTaskNode_NotifyUnderflowPanics(t *testing.T) {
	// Arrange
	n := NewTaskNode("node", MakeTask(func() {}), 0, true)

	// Act and Assert
	defer func() {
		r := recover()
		se, ok := r.(*SchedulerError)
		if !ok {
			t.Fatalf("recovered %T, want *SchedulerError", r)
		}
		if se.Kind != WaitCountUnderflow {
			t.Fatalf("kind = %v, want WaitCountUnderflow", se.Kind)
		}
	}()

	n.Notify()
}

// TestTaskNode_DispatchesAfterAllNotifies verifies a node with a
// multi-count wait only runs once every upstream has notified it
// Given: A node with wait count 2
// When: Notify is called once, then again
// Then: the underlying task only finishes after the second Notify
func TestTaskNode_DispatchesAfterAllNotifies(t *testing.T) {
	// Arrange
	ran := make(chan struct{}, 1)
	task := MakeTask(func() { ran <- struct{}{} })
	n := NewTaskNode("node", task, 2, true)

	// Act
	n.Notify()
	select {
	case <-ran:
		t.Fatal("task ran after only one of two notifies")
	default:
	}

	n.Notify()
	n.Join()

	// Assert
	select {
	case <-ran:
	default:
		t.Fatal("task should have run after the second notify")
	}
}
