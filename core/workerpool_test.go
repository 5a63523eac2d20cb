package core

import "testing"

// TestWorkerPool_SchedulesManagedThread verifies a managed VirtualThread
// runs on the shared pool
// Given: A virtual thread started managed
// When: Join is called from outside the pool
// Then: it blocks until one of the pool's workers has run it
func TestWorkerPool_SchedulesManagedThread(t *testing.T) {
	// Arrange
	vt := NewVirtualThread("managed")
	ran := make(chan struct{})

	// Act
	vt.Start(func() { close(ran) }, true)
	vt.Join()

	// Assert
	select {
	case <-ran:
	default:
		t.Fatal("managed virtual thread should have run before Join returned")
	}
}

// TestWorkerPool_StatsReportsWorkerCount verifies Stats exposes the
// worker count configured at pool construction
// Given: A standalone pool with a fixed number of workers
// When: Stats is called with no work scheduled
// Then: Workers matches the configured count and Pending/Running are zero
func TestWorkerPool_StatsReportsWorkerCount(t *testing.T) {
	// Arrange
	p := newWorkerPool(2)
	defer p.Shutdown()

	// Act
	stats := p.Stats()

	// Assert
	if stats.Workers != 2 {
		t.Fatalf("Workers = %d, want 2", stats.Workers)
	}
	if stats.Pending != 0 || stats.Running != 0 {
		t.Fatalf("stats = %+v, want Pending=0 Running=0", stats)
	}
}
