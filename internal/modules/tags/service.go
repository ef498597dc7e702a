package tags

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"warden-bot/internal/config"
	"warden-bot/internal/storage"
)

var (
	ErrNotFound       = errors.New("tag not found")
	ErrContentTooLong = errors.New("tag content is too long")
	ErrEmptyName      = errors.New("tag name is empty")
)

type Store interface {
	SetTag(ctx context.Context, tag storage.Tag) error
	GetTag(ctx context.Context, guildID, name string) (storage.Tag, error)
	DeleteTag(ctx context.Context, guildID, name string) error
	ListTags(ctx context.Context, guildID string) ([]storage.Tag, error)
}

type Service struct {
	store  Store
	config config.TagsConfig
}

func New(store Store, cfg config.TagsConfig) *Service {
	return &Service{store: store, config: cfg}
}

func (s *Service) Get(ctx context.Context, guildID, name string) (storage.Tag, error) {
	tag, err := s.store.GetTag(ctx, guildID, strings.TrimSpace(name))
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Tag{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tag, err
}

func (s *Service) Set(ctx context.Context, guildID, name, content string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(content) > s.config.MaxContentLength {
		return ErrContentTooLong
	}
	return s.store.SetTag(ctx, storage.Tag{GuildID: guildID, Name: name, Content: content})
}

func (s *Service) Delete(ctx context.Context, guildID, name string) error {
	err := s.store.DeleteTag(ctx, guildID, strings.TrimSpace(name))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

// Page is one screen of the tag listing. Index is zero based.
type Page struct {
	Tags  []storage.Tag
	Index int
	Total int
}

func (p Page) HasPrev() bool {
	return p.Index > 0
}

func (p Page) HasNext() bool {
	return p.Index < p.Total-1
}

// List returns page index of the guild's tags, clamped to the available pages.
// A guild without tags yields a page with Total 0.
func (s *Service) List(ctx context.Context, guildID string, index int) (Page, error) {
	all, err := s.store.ListTags(ctx, guildID)
	if err != nil {
		return Page{}, err
	}
	size := s.config.PageSize
	total := (len(all) + size - 1) / size
	if total == 0 {
		return Page{}, nil
	}
	if index < 0 {
		index = 0
	}
	if index >= total {
		index = total - 1
	}

	start := index * size
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return Page{Tags: all[start:end], Index: index, Total: total}, nil
}

func (s *Service) Preview(content string) string {
	return Preview(content, s.config.PreviewLength)
}

// Preview cuts content to limit runes, marking the cut with "...".
func Preview(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	return string([]rune(content)[:limit]) + "..."
}
