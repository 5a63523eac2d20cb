package core

import "github.com/google/uuid"

// TaskID is an opaque correlation id attached to every Task and
// VirtualThread for logging and Stats grouping. It plays no role in the
// Task List's own dependency bookkeeping — that uses a separate,
// strictly-increasing numeric id per spec §3's Task List invariant — it
// only gives external observers (loggers, Metrics, Stats) a stable key
// that survives across goroutines.
type TaskID uuid.UUID

// GenerateTaskID returns a fresh, non-zero TaskID.
func GenerateTaskID() TaskID {
	return TaskID(uuid.New())
}

// IsZero reports whether id is the zero value (never generated).
func (id TaskID) IsZero() bool {
	return id == TaskID{}
}

func (id TaskID) String() string {
	return uuid.UUID(id).String()
}
