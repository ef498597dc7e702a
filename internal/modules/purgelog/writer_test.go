package purgelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	got := FileName("My Guild", "General Chat", now)
	if got != "my-guild-general-chat-20240506T070809Z.txt" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestWriteTranscript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	writer := New(dir, "")
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	entries := []Entry{
		{ID: "1", AuthorName: "alice", Content: "hello\nworld", CreatedAt: now.Add(-time.Minute)},
		{ID: "2", AuthorName: "bob", Content: "bye", CreatedAt: now},
	}
	name, err := writer.Write("Guild", "chat", entries, now)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "Purged 2 messages in chat (Guild)\n") {
		t.Fatalf("unexpected header in %q", text)
	}
	if !strings.Contains(text, "\t\thello\n\t\tworld\n") {
		t.Fatalf("multi-line content not indented: %q", text)
	}
	if !strings.Contains(text, "\tbob - 2024-05-06 07:08:09+00:00 - id: (2)\n") {
		t.Fatalf("missing entry line: %q", text)
	}
}

func TestLink(t *testing.T) {
	if got := New("logs", "").Link("a.txt"); got != "" {
		t.Fatalf("expected no link, got %q", got)
	}
	if got := New("logs", "https://logs.example.com/").Link("a.txt"); got != "https://logs.example.com/a.txt" {
		t.Fatalf("unexpected link %q", got)
	}
}
