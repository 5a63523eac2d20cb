package taskrunner

import "github.com/parallelf/taskgraph/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the taskrunner package for most use cases.

// Task is the unit of scheduled work.
type Task = core.Task

// TaskState is one of a Task's three lifecycle states.
type TaskState = core.TaskState

// Value is a handle to a Task's eventual result.
type Value = core.Value

// TaskID is an opaque correlation id attached to tasks and virtual threads.
type TaskID = core.TaskID

// VirtualThread is the one-shot execution context a Task runs on.
type VirtualThread = core.VirtualThread

// WorkerPool is the shared pool of goroutines that run managed virtual threads.
type WorkerPool = core.WorkerPool

// TaskNode binds a Task to a wait count within a TaskQueue or TaskList.
type TaskNode = core.TaskNode

// TaskQueue is a sequential chain of tasks.
type TaskQueue = core.TaskQueue

// TaskList is a dependency DAG of tasks keyed by numeric ids.
type TaskList = core.TaskList

// Joinable is a deferred handle to work that may still be completing.
type Joinable = core.Joinable

// Joinables aggregates a set of Joinable handles.
type Joinables = core.Joinables

// Listener tracks Event subscriptions and releases them together.
type Listener = core.Listener

// Logger is the structured logging interface used throughout the package.
type Logger = core.Logger

// Field is a structured logging key-value pair.
type Field = core.Field

// PanicHandler recovers a task callable's panic inside a VirtualThread's Run.
type PanicHandler = core.PanicHandler

// Metrics collects execution metrics for the worker pool.
type Metrics = core.Metrics

// System is the process-wide debug-level and log-sink singleton.
type System = core.System

// SystemConfig is the YAML-loadable configuration for System.
type SystemConfig = core.SystemConfig

// Lifecycle state constants.
const (
	Created  = core.Created
	Running  = core.Running
	Finished = core.Finished
)

// Error kinds, for callers that want to match on a recovered
// *core.SchedulerError without importing core directly.
type ErrorKind = core.ErrorKind
type SchedulerError = core.SchedulerError

const (
	InvalidTransition      = core.InvalidTransition
	DoubleStart            = core.DoubleStart
	SelfJoin               = core.SelfJoin
	DestroyWhileRunning    = core.DestroyWhileRunning
	WaitCountUnderflow     = core.WaitCountUnderflow
	InvalidSubscriberIndex = core.InvalidSubscriberIndex
	TypeMismatch           = core.TypeMismatch
)

// MakeTask builds a Task around fn, invoked with args once released.
var MakeTask = core.MakeTask

// Get extracts a typed result from a Value.
func Get[T any](v Value) T {
	return core.Get[T](v)
}

// NewTaskList creates an empty dependency DAG of tasks.
var NewTaskList = core.NewTaskList

// DefaultSystem returns the process-wide System singleton.
var DefaultSystem = core.DefaultSystem

// LoadSystemConfig reads and parses a YAML SystemConfig from path.
var LoadSystemConfig = core.LoadSystemConfig

// ShowStats reports on the process-wide Stats singleton.
var ShowStats = core.ShowStats

// NewDefaultLogger creates a new DefaultLogger.
var NewDefaultLogger = core.NewDefaultLogger

// NewNoOpLogger creates a new NoOpLogger.
var NewNoOpLogger = core.NewNoOpLogger

// F creates a new Field with the given key and value.
var F = core.F
