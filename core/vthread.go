package core

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// currentGoroutineID extracts the calling goroutine's runtime id by
// parsing the header line of its own stack trace. There is no public
// runtime API for this; the corpus has no third-party library that
// provides it either, so this uses the well-known runtime.Stack-parsing
// idiom rather than reaching for an unrelated dependency.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return id
}

// VirtualThread is a one-shot execution context: a name, a single
// callable, and a completion signal. It can run on a managed worker
// (dispatched through WorkerPool's LIFO stack) or on a dedicated
// goroutine ("unmanaged"), mirroring vthread.hpp's managed/unmanaged
// start path.
type VirtualThread struct {
	name string

	// id is a correlation id distinct from the name, for log lines and
	// Stats entries that want a stable key across a thread's unique,
	// counter-suffixed name (spec §3).
	id TaskID

	mu   sync.Mutex
	cond *sync.Cond

	fn        func()
	done      bool
	panicInfo any

	// goroutineID is set while Run executes fn, so Join can detect a
	// managed worker attempting to join the very thread it is running
	// inside of (spec §7 SelfJoin).
	goroutineID uint64
}

// vthreadNames hands out the base+counter names vthread.hpp's
// manager::make_name produces, so two virtual threads started with the
// same base name ("worker", "flush", ...) never collide.
var vthreadNames = struct {
	mu     sync.Mutex
	counts map[string]uint64
}{counts: make(map[string]uint64)}

func makeVThreadName(base string) string {
	vthreadNames.mu.Lock()
	defer vthreadNames.mu.Unlock()
	n := vthreadNames.counts[base]
	vthreadNames.counts[base] = n + 1
	return base + "." + itoa(n)
}

// NewVirtualThread constructs a not-yet-started virtual thread named
// base plus a monotonically increasing per-base counter.
func NewVirtualThread(base string) *VirtualThread {
	if base == "" {
		base = "unnamed"
	}
	vt := &VirtualThread{name: makeVThreadName(base), id: GenerateTaskID()}
	vt.cond = sync.NewCond(&vt.mu)
	return vt
}

func (vt *VirtualThread) Name() string { return vt.name }

// ID returns the thread's correlation id.
func (vt *VirtualThread) ID() TaskID { return vt.id }

// Start arranges for fn to run exactly once. If managed is true, the
// thread is handed to the global WorkerPool's LIFO stack, to run on
// whichever worker goroutine pops it; otherwise it runs on a dedicated
// goroutine immediately. Calling Start twice is a programmer error
// (spec §7 DoubleStart).
func (vt *VirtualThread) Start(fn func(), managed bool) {
	vt.mu.Lock()
	if vt.fn != nil {
		vt.mu.Unlock()
		fail(DoubleStart, "vthread %q: start called again", vt.name)
	}
	vt.fn = fn
	vt.mu.Unlock()

	if managed {
		defaultWorkerPool().schedule(vt)
		return
	}

	go vt.Run()
}

// defaultPanicHandler is consulted by Run to recover a user callable's
// panic; nil means panics propagate uncaught, which is also what
// happens for any *SchedulerError regardless of this setting.
var defaultPanicHandler PanicHandler

// SetPanicHandler installs the handler Run uses to recover a task
// callable's panic. Pass nil to restore the default (panics propagate).
func SetPanicHandler(h PanicHandler) {
	defaultPanicHandler = h
}

// Run executes the bound callable and marks the thread done. It is
// called by a worker pulled off the pool's stack, or directly by the
// dedicated goroutine Start spawned for an unmanaged thread. A panic
// raised by the callable itself is recovered via defaultPanicHandler;
// a *SchedulerError panic (an invariant violation, not a task fault)
// always propagates.
func (vt *VirtualThread) Run() {
	vt.mu.Lock()
	vt.goroutineID = currentGoroutineID()
	fn := vt.fn
	vt.mu.Unlock()

	var panicInfo any
	if fn != nil {
		panicInfo = recoverTaskPanic(vt.name, defaultPanicHandler, fn)
	}

	vt.mu.Lock()
	vt.done = true
	vt.panicInfo = panicInfo
	vt.goroutineID = 0
	vt.cond.Broadcast()
	vt.mu.Unlock()
}

// PanicInfo returns the value recovered from the bound callable's panic,
// or nil if it ran to completion without panicking.
func (vt *VirtualThread) PanicInfo() any {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.panicInfo
}

// runningHere reports whether the calling goroutine is the one
// currently executing this thread's callable.
func (vt *VirtualThread) runningHere() bool {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.goroutineID != 0 && vt.goroutineID == currentGoroutineID()
}

// Join blocks the calling goroutine until Run has completed. Called
// from a managed worker, it cooperatively yields to the pool (running
// other pending work) instead of parking the worker goroutine, exactly
// as vthread::join()'s managed branch does; called from any other
// goroutine, it blocks on the completion condition variable. Joining
// the thread that is currently running oneself is a programmer error
// (spec §7 SelfJoin).
func (vt *VirtualThread) Join() {
	for {
		vt.mu.Lock()
		if vt.done {
			vt.mu.Unlock()
			return
		}

		if isManagedThread() {
			if vt.goroutineID != 0 && vt.goroutineID == currentGoroutineID() {
				vt.mu.Unlock()
				fail(SelfJoin, "vthread %q: join called on self", vt.name)
			}
			vt.mu.Unlock()
			defaultWorkerPool().yieldOnce()
			continue
		}

		vt.cond.Wait()
		vt.mu.Unlock()
	}
}

// Done reports whether Run has completed.
func (vt *VirtualThread) Done() bool {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.done
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
