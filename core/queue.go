package core

import "sync"

// TaskQueue is a sequential chain of tasks: each pushed task becomes a
// TaskNode that depends on the one pushed immediately before it, so
// Exec runs them strictly in push order even though each still executes
// on its own VirtualThread. Grounded on task_queue's behavior exercised
// by test_queue.cpp, where downstream closures read an upstream
// task's Result() and therefore need it to have already finished.
type TaskQueue struct {
	mu    sync.Mutex
	nodes []*TaskNode
}

// Push appends task to the queue. Every node gets a wait count of 1:
// the head of the chain reserves it for Exec's explicit release, and
// every later node spends it on its dependency on the node pushed
// immediately before it — so nothing in the chain can start running
// before Exec is called, even a head with no real dependency of its
// own. It takes effect the next time Exec is called; pushing after Exec
// starts a fresh chain.
func (q *TaskQueue) Push(task *BaseTask) {
	q.mu.Lock()
	defer q.mu.Unlock()

	node := NewTaskNode("queue", task, 1, true)
	if len(q.nodes) > 0 {
		prev := q.nodes[len(q.nodes)-1]
		prev.AddToNotify(node)
	}
	q.nodes = append(q.nodes, node)
}

// Exec releases the queue's current chain to run by releasing the
// head's reserved wait count; every later node then dispatches in turn
// as its predecessor finishes. If detached is false, Exec blocks until
// every task in the chain has finished and returns an already-joined
// Joinable; if true, Exec returns immediately with a Joinable that
// blocks on the whole chain when later joined.
func (q *TaskQueue) Exec(detached bool) Joinable {
	q.mu.Lock()
	nodes := q.nodes
	q.nodes = nil
	q.mu.Unlock()

	if len(nodes) > 0 {
		nodes[0].Release()
	}

	joinAll := func() {
		for _, n := range nodes {
			n.Join()
		}
	}

	if detached {
		done := make(chan struct{})
		go func() {
			joinAll()
			close(done)
		}()
		return newJoinable(func() { <-done })
	}

	joinAll()
	return newJoinable(func() {})
}
