package core

import "sync"

// taskListID numeric ids for TaskList dependencies start at 1; 0 means "no
// dependency" (spec §3: an unknown or zero dependency id is treated as
// already satisfied).
type taskListID uint64

// TaskList is a DAG of tasks keyed by strictly-increasing numeric ids,
// grounded on parallel_f.hpp's task_list plus task_node.hpp's
// wait-count notification scheme (the newer implementation exercised by
// test_list.cpp and test_flush_join.cpp's flush() example).
type TaskList struct {
	mu      sync.Mutex
	nextID  taskListID
	nodes   map[taskListID]*TaskNode
	pending map[taskListID]bool // nodes whose reserved wait count has not yet been released by Flush or Finish
	managed bool
}

// NewTaskList constructs an empty list. Every node it creates is
// dispatched onto the shared, managed WorkerPool.
func NewTaskList() *TaskList {
	return &TaskList{
		nodes:   make(map[taskListID]*TaskNode),
		pending: make(map[taskListID]bool),
		managed: true,
	}
}

// Append adds task to the list with a dependency on every id in deps.
// Dependency ids that are zero, or that never named a node this list
// created, are silently treated as already satisfied rather than
// rejected — matching the original's tolerance for stale or zero ids.
// A dependency id that does name a real node stays a valid target for
// every later Append that references it: being read as one downstream
// task's dependency does not consume or retire it, so a single node can
// fan out to any number of independent downstream nodes. The new node
// is constructed with one wait count more than its real dependency
// count — reserved for the explicit release Flush or Finish issues —
// so it cannot dispatch merely because its dependencies happen to
// finish before this list hands it over to run. Append returns the new
// node's id, usable as a dependency in a later Append or as the
// argument to Flush.
func (l *TaskList) Append(task *BaseTask, deps ...uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var live []*TaskNode
	for _, d := range deps {
		id := taskListID(d)
		if id == 0 {
			continue
		}
		if n, ok := l.nodes[id]; ok {
			live = append(live, n)
		}
	}

	l.nextID++
	id := l.nextID

	node := NewTaskNode("list", task, uint(len(live))+1, l.managed)
	l.nodes[id] = node
	l.pending[id] = true

	for _, dep := range live {
		dep.AddToNotify(node)
	}

	return uint64(id)
}

// Flush creates a barrier node that depends on every node not yet
// released by an earlier Flush or Finish, releases each of their
// reserved wait counts so they can actually run, and returns the
// barrier's own id. Passing that id as a dependency to later Append
// calls serializes them behind everything appended before the flush,
// while tasks appended concurrently on other branches of the DAG remain
// free to run in parallel — the re-entrant pattern
// test_flush_join.cpp's test_flush exercises.
func (l *TaskList) Flush() uint64 {
	l.mu.Lock()

	var live []*TaskNode
	for id := range l.pending {
		live = append(live, l.nodes[id])
	}
	l.pending = make(map[taskListID]bool)

	l.nextID++
	id := l.nextID

	barrier := MakeTask(func() {})
	node := NewTaskNode("flush", barrier, uint(len(live))+1, l.managed)
	l.nodes[id] = node
	l.pending[id] = true

	for _, dep := range live {
		dep.AddToNotify(node)
	}
	l.mu.Unlock()

	for _, dep := range live {
		dep.Release()
	}

	return uint64(id)
}

// Finish releases every node whose reserved wait count has not already
// been released by an earlier Flush, then waits for the whole list —
// every node it has ever created, not just the ones just released — to
// finish. If detached is true, Finish returns immediately with a
// Joinable that performs that wait instead.
func (l *TaskList) Finish(detached bool) Joinable {
	l.mu.Lock()
	var toRelease []*TaskNode
	for id := range l.pending {
		toRelease = append(toRelease, l.nodes[id])
	}
	l.pending = make(map[taskListID]bool)

	var nodes []*TaskNode
	for _, n := range l.nodes {
		nodes = append(nodes, n)
	}
	l.mu.Unlock()

	for _, n := range toRelease {
		n.Release()
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
