package core

import (
	"testing"
)

// TestNewRunIDUniqueness tests that NewRunID generates unique identifiers
func TestNewRunIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[RunID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewRunID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseRunID(t *testing.T) {
	if _, err := ParseRunID("  "); err == nil {
		t.Error("Expected error for blank run ID")
	}
	id, err := ParseRunID("run-1")
	if err != nil || id.String() != "run-1" {
		t.Errorf("Expected run-1, got %q (%v)", id, err)
	}
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("2020"))
	if len(h) != 64 {
		t.Fatalf("Expected 64 hex digits, got %d", len(h))
	}
	if h.Short() != h.String()[:12] {
		t.Errorf("Short() = %q", h.Short())
	}
	if NewHash([]byte("2020")) != h {
		t.Error("Expected hashing to be deterministic")
	}
}
