package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"warden-bot/internal/config"
	"warden-bot/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(store, config.TagsConfig{MaxContentLength: 2000, PageSize: 25, PreviewLength: 20})
}

func TestSetGetDelete(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if err := service.Set(ctx, "g1", " rules ", "be nice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	tag, err := service.Get(ctx, "g1", "rules")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tag.Content != "be nice" {
		t.Fatalf("unexpected content %q", tag.Content)
	}

	if err := service.Delete(ctx, "g1", "rules"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, "g1", "rules"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.Delete(ctx, "g1", "rules"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestSetRejectsInvalidTags(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if err := service.Set(ctx, "g1", "long", strings.Repeat("a", 2001)); !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}
	if err := service.Set(ctx, "g1", "exact", strings.Repeat("é", 2000)); err != nil {
		t.Fatalf("2000 runes should be accepted: %v", err)
	}
	if err := service.Set(ctx, "g1", "  ", "x"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestListPaginates(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	page, err := service.List(ctx, "g1", 0)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if page.Total != 0 || len(page.Tags) != 0 {
		t.Fatalf("expected empty listing, got %+v", page)
	}

	for i := 0; i < 30; i++ {
		if err := service.Set(ctx, "g1", fmt.Sprintf("tag%02d", i), "content"); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	page, err = service.List(ctx, "g1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Tags) != 25 || page.HasPrev() || !page.HasNext() {
		t.Fatalf("unexpected first page %d/%d with %d tags", page.Index, page.Total, len(page.Tags))
	}

	page, _ = service.List(ctx, "g1", 7)
	if page.Index != 1 || len(page.Tags) != 5 || page.Tags[0].Name != "tag25" || page.HasNext() {
		t.Fatalf("unexpected clamped last page %+v", page)
	}
}

func TestPreview(t *testing.T) {
	cases := map[string]string{
		"short":                 "short",
		"exactly twenty chars!": "exactly twenty chars...",
		"12345678901234567890":  "12345678901234567890",
		strings.Repeat("ä", 24): strings.Repeat("ä", 20) + "...",
	}
	for input, want := range cases {
		if got := Preview(input, 20); got != want {
			t.Fatalf("Preview(%q) = %q, want %q", input, got, want)
		}
	}
}
