package core

import "testing"

// TestJoinable_ZeroValueJoinsImmediately verifies the zero-value Joinable is already joinable
// Given: A Joinable with no bound join function
// When: Join is called
// Then: it returns without blocking or panicking
func TestJoinable_ZeroValueJoinsImmediately(t *testing.T) {
	// Arrange
	var j Joinable

	// Act and Assert (no panic, no block)
	j.Join()
}

// TestJoinables_JoinAll verifies every added Joinable runs exactly once
// Given: Three Joinables each incrementing a shared counter
// When: JoinAll is called
// Then: the counter reflects all three joins, and a second JoinAll is a no-op
func TestJoinables_JoinAll(t *testing.T) {
	// Arrange
	var js Joinables
	count := 0
	for i := 0; i < 3; i++ {
		js.Add(newJoinable(func() { count++ }))
	}

	// Act
	js.JoinAll()
	js.JoinAll()

	// Assert
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
