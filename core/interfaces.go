package core

import (
	"fmt"
	"runtime/debug"
	"time"
)

func capturedStack() []byte {
	return debug.Stack()
}

// =============================================================================
// PanicHandler: recovers user-callable panics inside a managed VirtualThread
// =============================================================================

// PanicHandler is invoked when a user-supplied callable panics while
// running inside a VirtualThread's Run, whether the thread was started
// managed or unmanaged. It recovers only panics that
// originate from user code; a SchedulerError panic (one of spec §7's
// invariant violations) is never passed here and always propagates.
//
// Implementations should be thread-safe: they may be called concurrently
// from any worker in the pool.
type PanicHandler interface {
	// HandlePanic is called when a task's callable panics.
	//
	// threadName: the name of the VirtualThread that was running.
	// panicInfo: the recovered panic value.
	// stackTrace: the stack trace captured at the point of panic.
	HandlePanic(threadName string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs the panic to stderr via the given Logger.
type DefaultPanicHandler struct {
	Log Logger
}

func (h *DefaultPanicHandler) HandlePanic(threadName string, panicInfo any, stackTrace []byte) {
	log := h.Log
	if log == nil {
		log = NewDefaultLogger()
	}
	log.Error("task panicked",
		F("thread", threadName),
		F("panic", fmt.Sprintf("%v", panicInfo)),
		F("stack", string(stackTrace)),
	)
}

// recoverTaskPanic wraps fn so a panic raised by fn itself is recovered
// and reported to handler, while a *SchedulerError panic (an invariant
// violation, never a task's own fault) is left to propagate. With a nil
// handler nothing is recovered: every panic propagates. It returns
// the recovered panic value, or nil if fn completed normally, so the
// caller can feed it to Metrics.RecordTaskPanic.
func recoverTaskPanic(threadName string, handler PanicHandler, fn func()) (panicInfo any) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*SchedulerError); ok || handler == nil {
				panic(r)
			}
			panicInfo = r
			handler.HandlePanic(threadName, r, capturedStack())
		}
	}()
	fn()
	return nil
}

// =============================================================================
// Metrics: observability hooks for the worker pool and task graph
// =============================================================================

// Metrics collects execution metrics for the WorkerPool; only threads
// run by a pool worker are recorded. All methods must be non-blocking and safe to call
// concurrently; a nil Metrics is never dereferenced, callers should use
// NilMetrics instead.
type Metrics interface {
	// RecordTaskDuration records how long a task's Run took to execute
	// on the named virtual thread.
	RecordTaskDuration(threadName string, duration time.Duration)

	// RecordTaskPanic records that a task's callable panicked.
	RecordTaskPanic(threadName string, panicInfo any)

	// RecordPoolDepth records the current number of pending virtual
	// threads on the WorkerPool's stack.
	RecordPoolDepth(depth int)
}

// NilMetrics is a no-op Metrics implementation, the default when none is configured.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(threadName string, duration time.Duration) {}
func (m *NilMetrics) RecordTaskPanic(threadName string, panicInfo any)             {}
func (m *NilMetrics) RecordPoolDepth(depth int)                                    {}
