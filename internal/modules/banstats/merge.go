package banstats

import (
	"sort"
	"time"

	"warden-bot/internal/storage"
)

// Untrackable collects bans the bot performed without a surviving attribution record.
const Untrackable = "untrackable"

// AuditEvent is one ban entry from the platform audit log.
type AuditEvent struct {
	TargetID  string
	ActorID   string
	CreatedAt time.Time
	Reason    string
}

// Result maps a moderator id (or Untrackable) to a ban count.
type Result map[string]int

func (r Result) Total() int {
	total := 0
	for _, count := range r {
		total += count
	}
	return total
}

type Entry struct {
	ModeratorID string
	Count       int
}

// Sorted orders moderators by count, then id, with Untrackable last.
func (r Result) Sorted() []Entry {
	entries := make([]Entry, 0, len(r))
	for id, count := range r {
		if id == Untrackable {
			continue
		}
		entries = append(entries, Entry{ModeratorID: id, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ModeratorID < entries[j].ModeratorID
	})
	if count, ok := r[Untrackable]; ok {
		entries = append(entries, Entry{ModeratorID: Untrackable, Count: count})
	}
	return entries
}

type Summary struct {
	Matched     int
	Untrackable int
	Manual      int
	Backfilled  int
	Leftover    int
}

// Merge attributes every audit event to exactly one bucket. Bans issued by botID
// are credited to the moderator of the nearest stored record for the same user
// within tolerance; bans issued by anyone else are credited to that actor, and
// unmatched ones are handed to backfill. Records left over afterwards are
// credited to their moderator. records is not modified.
func Merge(botID string, events []AuditEvent, records []storage.BanRecord, tolerance time.Duration, backfill func(AuditEvent) error) (Result, Summary) {
	working := make([]storage.BanRecord, len(records))
	copy(working, records)

	result := make(Result)
	var summary Summary
	for _, event := range events {
		record, ok := match(event, &working, tolerance)
		switch {
		case event.ActorID != botID:
			if !ok && backfill != nil && backfill(event) == nil {
				summary.Backfilled++
			}
			result[event.ActorID]++
			summary.Manual++
		case ok:
			result[record.ResponsibleModID]++
			summary.Matched++
		default:
			result[Untrackable]++
			summary.Untrackable++
		}
	}

	for _, record := range working {
		result[record.ResponsibleModID]++
		summary.Leftover++
	}
	return result, summary
}

// match removes and returns the record for event.TargetID closest in time to the
// event, ties going to the earliest in working.
func match(event AuditEvent, working *[]storage.BanRecord, tolerance time.Duration) (storage.BanRecord, bool) {
	best := -1
	var bestDelta time.Duration
	for i, record := range *working {
		if record.BannedUserID != event.TargetID {
			continue
		}
		delta := absDuration(event.CreatedAt.Sub(record.BannedTime))
		if delta > tolerance {
			continue
		}
		if best == -1 || delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	if best == -1 {
		return storage.BanRecord{}, false
	}

	record := (*working)[best]
	*working = append((*working)[:best], (*working)[best+1:]...)
	return record, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
