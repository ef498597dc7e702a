package utils

import (
	"testing"
	"time"
)

func TestActivityWindowCountsDistinctKeys(t *testing.T) {
	window := NewActivityWindow(2 * time.Second)
	now := time.Now()
	if count := window.Touch("u1", now); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	window.Touch("u1", now.Add(200*time.Millisecond))
	window.Touch("u2", now.Add(500*time.Millisecond))
	if count := window.Count(now.Add(1 * time.Second)); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := window.Count(now.Add(2300 * time.Millisecond)); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	if count := window.Count(now.Add(3 * time.Second)); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}
