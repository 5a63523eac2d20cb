package core

import (
	"sync"
	"testing"
	"time"
)

// TestTaskList_FanInDependency verifies a fan-in DAG runs its
// sink only after both of its sources finish
// Given: Two independent tasks a and b, and a task c depending on both
// When: Finish(false) is called
// Then: c runs only after both a and b have recorded completion
func TestTaskList_FanInDependency(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var order []string

	tl := NewTaskList()
	aID := tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "a")
		mu.Unlock()
	}))
	bID := tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "b")
		mu.Unlock()
	}))
	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "c")
		mu.Unlock()
	}), aID, bID)

	// Act
	tl.Finish(false).Join()

	// Assert
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("order = %v, want a and b before c", order)
	}
}

// TestTaskList_ForkFanOutToMultipleDependents verifies a single node can
// serve as the dependency for more than one downstream Append
// Given: A appended once, then two independent tasks B and C each
// depending on A
// When: Finish(false) is called
// Then: both run only after A, even though A is read as a dependency twice
func TestTaskList_ForkFanOutToMultipleDependents(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var order []string

	tl := NewTaskList()
	aID := tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "a")
		mu.Unlock()
	}))
	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "b")
		mu.Unlock()
	}), aID)
	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "c")
		mu.Unlock()
	}), aID)

	// Act
	tl.Finish(false).Join()

	// Assert
	if len(order) != 3 || order[0] != "a" {
		t.Fatalf("order = %v, want a first, then b and c in either order", order)
	}
}

// TestTaskList_AsyncCompletionGatesDownstream verifies a node whose task
// completes out-of-band still correctly gates its dependents
// Given: A appended with a task that returns false and only reaches
// FINISHED later, from a separately spawned goroutine, and B appended
// depending on A
// When: Finish(false) is called
// Then: B runs only after A's out-of-band EnterState(Finished) call
func TestTaskList_AsyncCompletionGatesDownstream(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var order []string

	var aTask *BaseTask
	aTask = NewBaseTask(func() bool {
		go func() {
			time.Sleep(time.Millisecond)
			mu.Lock()
			order = append(order, "a")
			mu.Unlock()
			aTask.EnterState(Finished)
		}()
		return false
	})

	tl := NewTaskList()
	aID := tl.Append(aTask)
	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "b")
		mu.Unlock()
	}), aID)

	// Act
	tl.Finish(false).Join()

	// Assert
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
}

// TestTaskList_UnknownDependencyIsSatisfied verifies an unknown or zero
// dependency id is treated as already satisfied
// Given: A task appended with a bogus dependency id
// When: Finish(false) is called
// Then: it completes without blocking forever
func TestTaskList_UnknownDependencyIsSatisfied(t *testing.T) {
	// Arrange
	tl := NewTaskList()
	done := make(chan struct{})
	tl.Append(MakeTask(func() { close(done) }), 9999, 0)

	// Act
	tl.Finish(false).Join()

	// Assert
	select {
	case <-done:
	default:
		t.Fatal("task with only bogus dependencies should still have run")
	}
}

// TestTaskList_FlushSerializesSubsequentAppends verifies Flush's barrier id
// Given: A task appended before a flush, and another depending on the flush id
// When: Finish(false) is called
// Then: the post-flush task runs only after the pre-flush one
func TestTaskList_FlushSerializesSubsequentAppends(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var order []string

	tl := NewTaskList()
	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "before")
		mu.Unlock()
	}))

	flushID := tl.Flush()

	tl.Append(MakeTask(func() {
		mu.Lock()
		order = append(order, "after")
		mu.Unlock()
	}), flushID)

	// Act
	tl.Finish(false).Join()

	// Assert
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("order = %v, want [before after]", order)
	}
}
