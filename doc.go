// Package taskrunner implements a cooperative, dependency-aware task
// scheduler for CPU-bound work: tasks run on a small pool of worker
// goroutines and are released to run only once every dependency they
// were given has finished.
//
// # Quick Start
//
// A single task runs on the shared worker pool once pushed through a
// TaskQueue:
//
//	tq := &core.TaskQueue{}
//	task := core.MakeTask(func() string { return "hello" })
//	tq.Push(task)
//	tq.Exec(false) // blocks until task finishes
//
// # Key Concepts
//
// Task: a unit of work with a CREATED -> RUNNING -> FINISHED lifecycle.
// MakeTask binds an arbitrary callable and its arguments; a finished
// task's Result() exposes its return value through a Value handle.
//
// VirtualThread: the execution context a Task runs on. A "managed"
// virtual thread is dispatched through the shared WorkerPool; an
// "unmanaged" one gets a dedicated goroutine, used for work that blocks
// on something other than another task.
//
// TaskNode: binds a Task to a wait count. When every upstream node has
// notified it, the node dispatches its Task onto its VirtualThread.
// TaskQueue chains nodes sequentially; TaskList builds an arbitrary DAG
// of nodes keyed by numeric ids that Append assigns, with Flush inserting a
// barrier node that later Append calls can depend on.
//
// Joinable / Joinables: handles returned by a detached Exec/Finish call,
// so the caller can block on completion later instead of immediately.
//
// # Thread Safety
//
// Every exported type's methods, except Clock's, are safe to call
// concurrently. Joining
// a VirtualThread or TaskNode from a managed worker goroutine
// cooperatively yields to the pool instead of parking that worker;
// doing the same from any other goroutine blocks normally.
//
// # Example
//
//	import (
//		"github.com/parallelf/taskgraph/core"
//	)
//
//	func main() {
//		tl := core.NewTaskList()
//
//		a := tl.Append(core.MakeTask(func() { println("a") }))
//		b := tl.Append(core.MakeTask(func() { println("b") }))
//		tl.Append(core.MakeTask(func() { println("c, after a and b") }), a, b)
//
//		tl.Finish(false)
//	}
package taskrunner
