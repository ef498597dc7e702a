package audit

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoggerNotifies(t *testing.T) {
	logger := NewLogger(zap.NewNop())
	var got []Entry
	logger.SetNotifier(func(ctx context.Context, entry Entry) {
		got = append(got, entry)
	})

	logger.Log(context.Background(), Entry{GuildID: "g1", Action: ActionBanned, TargetID: "u1", ModeratorID: "m1"})
	if len(got) != 1 || got[0].Action != ActionBanned {
		t.Fatalf("expected one notification, got %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("expected timestamp to be filled in")
	}
}

func TestEmbedForMute(t *testing.T) {
	entry := Entry{
		Action:      ActionMuted,
		TargetID:    "u1",
		TargetName:  "alice",
		ModeratorID: "m1",
		Duration:    28 * 24 * time.Hour,
		Indefinite:  true,
		CreatedAt:   time.Unix(1000, 0),
	}
	embed := Embed(entry, 0xE67E22)
	if embed.Title != "Member muted" {
		t.Fatalf("unexpected title %q", embed.Title)
	}
	if len(embed.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(embed.Fields))
	}
	if embed.Fields[0].Value != "<@u1> (alice - u1)" {
		t.Fatalf("unexpected member field %q", embed.Fields[0].Value)
	}
	if embed.Fields[2].Value != "(none)" {
		t.Fatalf("expected placeholder reason, got %q", embed.Fields[2].Value)
	}
	if embed.Fields[3].Value != "28 days, 0:00:00 (as long as possible)" {
		t.Fatalf("unexpected duration %q", embed.Fields[3].Value)
	}
}

func TestEmbedForPurge(t *testing.T) {
	embed := Embed(Entry{Action: ActionPurged, Count: 11, ChannelID: "c1", LogURL: "https://logs/x.txt"}, 0)
	if embed.Description != "Deleted 11 messages in <#c1>." {
		t.Fatalf("unexpected description %q", embed.Description)
	}
	if len(embed.Fields) != 1 || embed.Fields[0].Value != "[Link](https://logs/x.txt)" {
		t.Fatalf("unexpected fields %+v", embed.Fields)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		90 * time.Second:                "0:01:30",
		26*time.Hour + 5*time.Second:    "1 day, 2:00:05",
		3*24*time.Hour + 61*time.Minute: "3 days, 1:01:00",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("FormatDuration(%s) = %q, want %q", d, got, want)
		}
	}
}
