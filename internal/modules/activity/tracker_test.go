package activity

import (
	"testing"
	"time"
)

func TestTrackerCountsDistinctAuthorsPerGuild(t *testing.T) {
	tracker := NewTracker(time.Hour)
	now := time.Unix(1000, 0)

	tracker.Touch("g1", "u1", now)
	tracker.Touch("g1", "u1", now.Add(time.Minute))
	tracker.Touch("g1", "u2", now.Add(2*time.Minute))
	tracker.Touch("g2", "u1", now)

	if got := tracker.Active("g1", now.Add(3*time.Minute)); got != 2 {
		t.Fatalf("expected 2 active users in g1, got %d", got)
	}
	if got := tracker.Active("g2", now.Add(3*time.Minute)); got != 1 {
		t.Fatalf("expected 1 active user in g2, got %d", got)
	}
	if got := tracker.Active("g3", now); got != 0 {
		t.Fatalf("expected unknown guild to be empty, got %d", got)
	}
	if got := tracker.Active("g1", now.Add(61*time.Minute+30*time.Second)); got != 1 {
		t.Fatalf("expected u1 to expire first, got %d", got)
	}
}

func TestChannelNames(t *testing.T) {
	if got := ActiveChannelName(12); got != "Active Users: 12" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := TotalChannelName(3400); got != "Total Users: 3400" {
		t.Fatalf("unexpected name %q", got)
	}
}
