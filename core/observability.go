package core

import "time"

// TaskExecutionRecord captures one completed task execution, for
// callers that want a history beyond the aggregate Stat counters (spec
// §6's Stats singleton only tracks running totals, not individual runs).
type TaskExecutionRecord struct {
	TaskID     TaskID
	ThreadName string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// PoolStats reports the WorkerPool's current runtime state.
type PoolStats struct {
	Workers int
	Pending int // virtual threads waiting on the LIFO stack
	Running int // virtual threads currently executing
}

// Stats returns a snapshot of the pool's current state.
func (p *WorkerPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Workers: len(p.workerIDs),
		Pending: len(p.stack),
		Running: p.running,
	}
}

func (p *WorkerPool) recordHistory(rec TaskExecutionRecord) {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	p.history = append(p.history, rec)
	if len(p.history) > maxExecutionHistory {
		p.history = p.history[len(p.history)-maxExecutionHistory:]
	}
}

// ExecutionHistory returns a snapshot of the most recently completed
// task executions, bounded to the last maxExecutionHistory entries.
func (p *WorkerPool) ExecutionHistory() []TaskExecutionRecord {
	p.historyMu.Lock()
	defer p.historyMu.Unlock()
	out := make([]TaskExecutionRecord, len(p.history))
	copy(out, p.history)
	return out
}

// ListStats reports a TaskList's current runtime state.
type ListStats struct {
	TotalNodes   int
	PendingNodes int
}

// Stats returns a snapshot of the list's current state.
func (l *TaskList) Stats() ListStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListStats{
		TotalNodes:   len(l.nodes),
		PendingNodes: len(l.pending),
	}
}
