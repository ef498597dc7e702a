package banstats

import (
	"errors"
	"testing"
	"time"

	"warden-bot/internal/storage"
)

const botID = "bot"

func at(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

func record(user, mod string, seconds int64) storage.BanRecord {
	return storage.BanRecord{GuildID: "g1", BannedUserID: user, ResponsibleModID: mod, BannedTime: at(seconds)}
}

func TestMergeBotBanWithRecord(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: botID, CreatedAt: at(1000)}}
	records := []storage.BanRecord{record("42", "7", 1005)}

	result, summary := Merge(botID, events, records, 20*time.Second, nil)
	if len(result) != 1 || result["7"] != 1 {
		t.Fatalf("expected {7: 1}, got %v", result)
	}
	if summary.Matched != 1 || summary.Leftover != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestMergeBotBanWithoutRecord(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: botID, CreatedAt: at(1000)}}

	result, _ := Merge(botID, events, nil, 20*time.Second, nil)
	if len(result) != 1 || result[Untrackable] != 1 {
		t.Fatalf("expected {untrackable: 1}, got %v", result)
	}
}

func TestMergeManualBanIsBackfilled(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: "99", CreatedAt: at(1000)}}

	var backfilled []AuditEvent
	result, summary := Merge(botID, events, nil, 20*time.Second, func(event AuditEvent) error {
		backfilled = append(backfilled, event)
		return nil
	})
	if len(result) != 1 || result["99"] != 1 {
		t.Fatalf("expected {99: 1}, got %v", result)
	}
	if len(backfilled) != 1 || backfilled[0].TargetID != "42" || !backfilled[0].CreatedAt.Equal(at(1000)) {
		t.Fatalf("unexpected backfill %+v", backfilled)
	}
	if summary.Backfilled != 1 || summary.Manual != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestMergeManualBanWithRecordNotBackfilled(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: "99", CreatedAt: at(1000)}}
	records := []storage.BanRecord{record("42", "99", 1000)}

	calls := 0
	result, summary := Merge(botID, events, records, 20*time.Second, func(AuditEvent) error {
		calls++
		return nil
	})
	if calls != 0 {
		t.Fatalf("matched manual ban was backfilled")
	}
	if result["99"] != 1 || summary.Leftover != 0 {
		t.Fatalf("expected the record to be consumed, got %v %+v", result, summary)
	}
}

func TestMergeBackfillFailureStillCounts(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: "99", CreatedAt: at(1000)}}

	result, summary := Merge(botID, events, nil, 20*time.Second, func(AuditEvent) error {
		return errors.New("database is locked")
	})
	if result["99"] != 1 {
		t.Fatalf("expected count despite failed backfill, got %v", result)
	}
	if summary.Backfilled != 0 {
		t.Fatalf("failed backfill counted as written")
	}
}

func TestMergeOutsideToleranceIsUntrackable(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: botID, CreatedAt: at(1000)}}
	records := []storage.BanRecord{record("42", "7", 1021)}

	result, summary := Merge(botID, events, records, 20*time.Second, nil)
	if result[Untrackable] != 1 || result["7"] != 1 {
		t.Fatalf("expected untrackable plus leftover, got %v", result)
	}
	if summary.Leftover != 1 {
		t.Fatalf("expected one leftover record, got %+v", summary)
	}
}

func TestMergePicksNearestRecord(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: botID, CreatedAt: at(1000)}}
	records := []storage.BanRecord{
		record("42", "far", 1015),
		record("42", "near", 997),
		record("43", "other", 1000),
	}

	result, _ := Merge(botID, events, records, 20*time.Second, nil)
	if result["near"] != 1 {
		t.Fatalf("expected nearest record to be matched, got %v", result)
	}
	if result["far"] != 1 || result["other"] != 1 {
		t.Fatalf("expected unmatched records as leftovers, got %v", result)
	}
}

func TestMergeTieGoesToFirstRecord(t *testing.T) {
	events := []AuditEvent{{TargetID: "42", ActorID: botID, CreatedAt: at(1000)}}
	records := []storage.BanRecord{
		record("42", "first", 1005),
		record("42", "second", 995),
	}

	result, summary := Merge(botID, events, records, 20*time.Second, nil)
	if result["first"] != 1 || result["second"] != 1 || summary.Matched != 1 || summary.Leftover != 1 {
		t.Fatalf("unexpected result %v %+v", result, summary)
	}

	// swap the order: the other record wins the tie
	records[0], records[1] = records[1], records[0]
	_, summary = Merge(botID, events, records, 20*time.Second, nil)
	if summary.Matched != 1 {
		t.Fatalf("expected a match, got %+v", summary)
	}
}

func TestMergeConsumesEachRecordOnce(t *testing.T) {
	events := []AuditEvent{
		{TargetID: "42", ActorID: botID, CreatedAt: at(1000)},
		{TargetID: "42", ActorID: botID, CreatedAt: at(1002)},
	}
	records := []storage.BanRecord{record("42", "7", 1001)}

	result, summary := Merge(botID, events, records, 20*time.Second, nil)
	if result["7"] != 1 || result[Untrackable] != 1 {
		t.Fatalf("expected one matched and one untrackable, got %v", result)
	}
	if summary.Matched != 1 || summary.Untrackable != 1 || summary.Leftover != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestMergeTotalEqualsEventsPlusLeftovers(t *testing.T) {
	events := []AuditEvent{
		{TargetID: "1", ActorID: botID, CreatedAt: at(100)},
		{TargetID: "2", ActorID: "mod-a", CreatedAt: at(200)},
		{TargetID: "3", ActorID: botID, CreatedAt: at(300)},
		{TargetID: "4", ActorID: "mod-b", CreatedAt: at(400)},
		{TargetID: "1", ActorID: botID, CreatedAt: at(500)},
	}
	records := []storage.BanRecord{
		record("1", "mod-a", 101),
		record("2", "mod-c", 190),
		record("5", "mod-b", 600),
		record("6", "mod-c", 700),
		record("3", "mod-a", 1000),
	}

	result, summary := Merge(botID, events, records, 20*time.Second, func(AuditEvent) error { return nil })
	if result.Total() != len(events)+summary.Leftover {
		t.Fatalf("total %d != %d events + %d leftovers", result.Total(), len(events), summary.Leftover)
	}
	if summary.Leftover != 3 {
		t.Fatalf("expected 3 leftovers, got %+v", summary)
	}
	if len(records) != 5 || records[0].BannedUserID != "1" {
		t.Fatalf("input records were modified")
	}
}

func TestResultSorted(t *testing.T) {
	result := Result{Untrackable: 9, "b": 2, "a": 2, "c": 5}
	sorted := result.Sorted()

	want := []string{"c", "a", "b", Untrackable}
	if len(sorted) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(sorted))
	}
	for i, id := range want {
		if sorted[i].ModeratorID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, sorted[i].ModeratorID)
		}
	}
}
