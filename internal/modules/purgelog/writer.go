package purgelog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Entry struct {
	ID         string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}

// Writer stores purge transcripts as text files under a directory.
type Writer struct {
	dir        string
	urlPrepend string
}

func New(dir, urlPrepend string) *Writer {
	return &Writer{dir: dir, urlPrepend: urlPrepend}
}

func FileName(guildName, channelName string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s.txt", slug(guildName), slug(channelName), now.UTC().Format("20060102T150405Z"))
}

func slug(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ReplaceAll(name, string(filepath.Separator), "-")
}

// Write appends a transcript of entries and returns the file name it used.
func (w *Writer) Write(guildName, channelName string, entries []Entry, now time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create purge log dir: %w", err)
	}
	name := FileName(guildName, channelName, now)
	file, err := os.OpenFile(filepath.Join(w.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open purge log: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	fmt.Fprintf(buf, "Purged %d messages in %s (%s)\n", len(entries), channelName, guildName)
	for _, entry := range entries {
		fmt.Fprintf(buf, "\t%s - %s - id: (%s)\n", entry.AuthorName, entry.CreatedAt.UTC().Format("2006-01-02 15:04:05-07:00"), entry.ID)
		fmt.Fprintf(buf, "\t\t%s\n", strings.ReplaceAll(entry.Content, "\n", "\n\t\t"))
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("write purge log: %w", err)
	}
	return name, nil
}

// Link returns the public URL of a transcript, or "" when no URL prefix is configured.
func (w *Writer) Link(name string) string {
	if w.urlPrepend == "" {
		return ""
	}
	return w.urlPrepend + name
}
