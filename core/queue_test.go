package core

import (
	"sync"
	"testing"
)

// TestTaskQueue_RunsInPushOrder verifies TaskQueue serializes its tasks
// Given: Three tasks pushed in order, each appending its index to a shared slice
// When: Exec(false) is called
// Then: it blocks until all three finish, and they ran in push order
func TestTaskQueue_RunsInPushOrder(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var order []int
	tq := &TaskQueue{}

	for i := 0; i < 3; i++ {
		i := i
		tq.Push(MakeTask(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}

	// Act
	tq.Exec(false).Join()

	// Assert
	if len(order) != 3 {
		t.Fatalf("order = %v, want 3 entries", order)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want [0 1 2]", order)
		}
	}
}

// TestTaskQueue_ChainsResultValueBetweenTasks verifies a Value handle
// produced by one queued task can be read by a task chained after it,
// the way test_queue.cpp's func1/func2/func3 chain via task1->result()
// Given: task1 returns 21, task2 doubles task1's result, task3 records task2's result
// When: Exec(false) is called
// Then: task3 observes the fully propagated value
func TestTaskQueue_ChainsResultValueBetweenTasks(t *testing.T) {
	// Arrange
	tq := &TaskQueue{}

	task1 := MakeTask(func() int { return 21 })
	tq.Push(task1)

	task2 := MakeTask(func(v Value) int { return Get[int](v) * 2 }, task1.Result())
	tq.Push(task2)

	var got int
	task3 := MakeTask(func(v Value) { got = Get[int](v) }, task2.Result())
	tq.Push(task3)

	// Act
	tq.Exec(false).Join()

	// Assert
	if got != 42 {
		t.Fatalf("got = %d, want 42", got)
	}
}

// TestTaskQueue_DetachedExecReturnsJoinable verifies detached execution
// Given: A queue with one task that records that it ran
// When: Exec(true) is called
// Then: Join on the returned Joinable blocks until the task has actually run
func TestTaskQueue_DetachedExecReturnsJoinable(t *testing.T) {
	// Arrange
	tq := &TaskQueue{}
	ran := false
	tq.Push(MakeTask(func() { ran = true }))

	// Act
	j := tq.Exec(true)
	j.Join()

	// Assert
	if !ran {
		t.Fatal("task should have run by the time Join returns")
	}
}
