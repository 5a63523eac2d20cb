package core

import (
	"testing"
	"time"
)

// TestClock_ResetReportsElapsed verifies Clock.Reset measures the interval
// since the previous Reset
// Given: A freshly reset clock
// When: Some time passes and Reset is called again
// Then: it reports a positive elapsed duration
func TestClock_ResetReportsElapsed(t *testing.T) {
	// Arrange
	var c Clock
	c.Reset()

	// Act
	time.Sleep(time.Millisecond)
	elapsed := c.Reset()

	// Assert
	if elapsed <= 0 {
		t.Fatalf("elapsed = %v, want > 0", elapsed)
	}
}
