package core

import "sync"

// Joinable is a deferred handle to work that may still be completing in
// the background, grounded on joinable.hpp. The zero value is already
// joinable (Join returns immediately), matching the original's default
// constructor with no bound join function.
type Joinable struct {
	join func()
}

// newJoinable wraps join so Join calls it exactly once.
func newJoinable(join func()) Joinable {
	var once sync.Once
	return Joinable{join: func() { once.Do(join) }}
}

// Join blocks until the underlying work completes. It is safe to call
// more than once; only the first call has any effect.
func (j Joinable) Join() {
	if j.join != nil {
		j.join()
	}
}

// Joinables aggregates a set of Joinable handles collected from
// multiple detached operations, so a caller can wait for all of them
// together (grounded on joinable.hpp's joinables class).
type Joinables struct {
	mu   sync.Mutex
	list []Joinable
}

// Add appends j to the set.
func (js *Joinables) Add(j Joinable) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.list = append(js.list, j)
}

// JoinAll joins every handle added so far, in the order they were added.
func (js *Joinables) JoinAll() {
	js.mu.Lock()
	list := js.list
	js.list = nil
	js.mu.Unlock()

	for _, j := range list {
		j.Join()
	}
}
