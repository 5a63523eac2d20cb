package core

import (
	"runtime"
	"sync"
	"time"
)

// WorkerPool is the process-wide, lazily-initialized pool of goroutines
// that run managed VirtualThreads, modeled on vthread.hpp's
// vthread::manager. It keeps pending threads on a LIFO stack (the most
// recently scheduled thread runs next), matching the original's
// depth-first bias towards threads a Join is likely about to wait on.
type WorkerPool struct {
	mu   sync.Mutex
	cond *sync.Cond

	stack     []*VirtualThread
	workerIDs map[uint64]bool

	running  int
	shutdown bool

	stats   []*Stat
	metrics Metrics

	historyMu sync.Mutex
	history   []TaskExecutionRecord
}

// maxExecutionHistory bounds ExecutionHistory's retained record count;
// older entries are dropped as newer ones arrive.
const maxExecutionHistory = 256

var (
	poolOnce sync.Once
	pool     *WorkerPool
)

// defaultWorkerPool returns the single process-wide pool, starting its
// worker goroutines (one per logical CPU, matching
// std::thread::hardware_concurrency()) on first use.
func defaultWorkerPool() *WorkerPool {
	poolOnce.Do(func() {
		pool = newWorkerPool(runtime.NumCPU())
	})
	return pool
}

func newWorkerPool(numWorkers int) *WorkerPool {
	p := &WorkerPool{workerIDs: make(map[uint64]bool), metrics: &NilMetrics{}}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < numWorkers; i++ {
		stat := defaultStats().makeStat("cpu." + itoa(uint64(i)))
		p.stats = append(p.stats, stat)

		started := make(chan uint64, 1)
		go func(stat *Stat) {
			started <- currentGoroutineID()
			p.loop(stat)
		}(stat)
		id := <-started

		p.mu.Lock()
		p.workerIDs[id] = true
		p.mu.Unlock()
	}

	return p
}

func (p *WorkerPool) loop(stat *Stat) {
	for {
		p.mu.Lock()
		if p.shutdown {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		p.once(stat, 100*time.Millisecond)
	}
}

// once pops the next pending thread and runs it, reporting idle/busy
// time to stat. It is also the mechanism Join uses to cooperatively
// yield: a managed worker blocked in Join calls this (via yieldOnce)
// instead of parking, so it keeps draining the stack while it waits.
func (p *WorkerPool) once(stat *Stat, timeout time.Duration) {
	var clock Clock
	clock.Reset()

	p.mu.Lock()
	if len(p.stack) == 0 {
		waitWithTimeout(p.cond, &p.mu, timeout)
	}

	if stat != nil {
		stat.ReportIdle(clock.Reset())
	}

	if p.shutdown || len(p.stack) == 0 {
		p.mu.Unlock()
		return
	}

	top := len(p.stack) - 1
	vt := p.stack[top]
	p.stack = p.stack[:top]
	p.running++
	metrics := p.metrics
	metrics.RecordPoolDepth(len(p.stack))
	p.mu.Unlock()

	started := time.Now()
	vt.Run()
	finished := time.Now()

	p.mu.Lock()
	p.running--
	p.mu.Unlock()

	if stat != nil {
		stat.ReportBusy(clock.Reset())
	}

	duration := finished.Sub(started)
	metrics.RecordTaskDuration(vt.Name(), duration)
	panicInfo := vt.PanicInfo()
	if panicInfo != nil {
		metrics.RecordTaskPanic(vt.Name(), panicInfo)
	}
	p.recordHistory(TaskExecutionRecord{
		TaskID:     vt.ID(),
		ThreadName: vt.Name(),
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   duration,
		Panicked:   panicInfo != nil,
	})
}

// SetMetrics installs m as the pool's metrics sink. Pass nil to restore
// the default no-op sink.
func (p *WorkerPool) SetMetrics(m Metrics) {
	if m == nil {
		m = &NilMetrics{}
	}
	p.mu.Lock()
	p.metrics = m
	p.mu.Unlock()
}

func (p *WorkerPool) yieldOnce() {
	if !isManagedThread() {
		fail(SelfJoin, "yield called from an unmanaged thread")
	}
	p.once(nil, 10*time.Millisecond)
}

func (p *WorkerPool) schedule(vt *VirtualThread) {
	p.mu.Lock()
	p.stack = append(p.stack, vt)
	p.mu.Unlock()
	p.cond.Signal()
}

func (p *WorkerPool) hasWorker(id uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workerIDs[id]
}

// Shutdown sets the shutdown flag and wakes every worker goroutine so
// they can observe it and return; it does not wait for in-flight
// VirtualThread.Run calls to finish. A later schedule call still pushes
// onto the stack, but no worker pops it.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// isManagedThread reports whether the calling goroutine is one of the
// default pool's worker goroutines.
func isManagedThread() bool {
	return defaultWorkerPool().hasWorker(currentGoroutineID())
}

// waitWithTimeout blocks on cond for at most timeout. The caller must
// hold mu, exactly as sync.Cond.Wait requires; sync.Cond has no
// built-in timed wait, so a timer fires a spurious Broadcast after
// timeout to bound it.
func waitWithTimeout(cond *sync.Cond, mu *sync.Mutex, timeout time.Duration) {
	timer := time.AfterFunc(timeout, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	defer timer.Stop()

	cond.Wait()
}
