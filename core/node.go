package core

import "sync"

// TaskNode binds a Task to a virtual thread and a wait count, and is
// the element TaskQueue and TaskList schedule: once every upstream
// dependency has notified it, it dispatches its Task onto a
// VirtualThread. Grounded on task_node.hpp.
type TaskNode struct {
	task    *BaseTask
	thread  *VirtualThread
	managed bool

	mu   sync.Mutex
	wait uint

	listener Listener
}

// NewTaskNode wraps task with a wait count of wait (the number of
// upstream nodes that must Notify it before it runs) and names its
// virtual thread name. managed selects whether the eventual run
// dispatches onto the shared WorkerPool (true) or a dedicated goroutine
// (false). A wait count of zero dispatches the task immediately; this
// is the bare primitive's behavior, used directly by nothing else in
// this package — TaskQueue and TaskList always construct their nodes
// with one extra reserved count beyond the real dependency count (see
// Release), so a node they create never dispatches before they
// explicitly hand it over to run.
func NewTaskNode(name string, task *BaseTask, wait uint, managed bool) *TaskNode {
	n := &TaskNode{
		task:    task,
		thread:  NewVirtualThread(name),
		managed: managed,
		wait:    wait,
	}

	if wait == 0 {
		n.dispatch()
	}

	return n
}

// AddToNotify arranges for downstream to be Notified once this node's
// task finishes. This goes through the task's own finished Event, so it
// is race-free with respect to a task that is about to finish, or has
// already finished, concurrently with this call: Event's late-subscriber
// guarantee fires downstream.Notify synchronously in that case instead
// of losing the notification.
func (n *TaskNode) AddToNotify(downstream *TaskNode) {
	n.task.OnFinished(&downstream.listener, func(int) {
		downstream.Notify()
	})
}

// Notify decrements the wait count by one; when it reaches zero the
// node's task is dispatched onto its virtual thread. Notifying a node
// whose wait count is already zero is a programmer error (spec §7
// WaitCountUnderflow).
func (n *TaskNode) Notify() {
	n.mu.Lock()
	if n.wait == 0 {
		n.mu.Unlock()
		fail(WaitCountUnderflow, "task_node %q: notify with zero wait count", n.Name())
	}

	n.wait--
	ready := n.wait == 0
	n.mu.Unlock()

	if ready {
		n.dispatch()
	}
}

// Release consumes the reserved wait count TaskQueue.Exec and
// TaskList.Flush/Finish add on top of a node's real dependency count at
// construction, so a node with no live dependencies still cannot run
// until its owning Queue or List explicitly hands it over.
func (n *TaskNode) Release() {
	n.Notify()
}

func (n *TaskNode) dispatch() {
	t := n.task
	n.thread.Start(func() {
		t.Finish()
	}, n.managed)
}

// Join blocks until this node's underlying task has reached FINISHED —
// not merely until its virtual thread's Run returned, which for an
// asynchronous task (one whose run() reported it would finish
// out-of-band) can happen well before the task itself finishes. Called
// from a managed worker other than the one running this node, it
// cooperatively yields to the pool (running other pending work) instead
// of parking the worker goroutine, exactly as VirtualThread.Join's
// managed branch does; called from any other goroutine, it blocks until
// the task's finished Event fires. Joining the node whose own thread is
// currently running the calling goroutine is a programmer error (spec
// §7 SelfJoin).
func (n *TaskNode) Join() {
	done := make(chan struct{})
	var l Listener
	n.task.OnFinished(&l, func(int) { close(done) })

	for {
		select {
		case <-done:
			return
		default:
		}

		if isManagedThread() {
			if n.thread.runningHere() {
				fail(SelfJoin, "task_node %q: join called on self", n.Name())
			}
			defaultWorkerPool().yieldOnce()
			continue
		}

		<-done
		return
	}
}

func (n *TaskNode) Name() string { return n.thread.Name() }

// Task returns the node's underlying task.
func (n *TaskNode) Task() *BaseTask { return n.task }
