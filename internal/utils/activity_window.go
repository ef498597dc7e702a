package utils

import (
	"sync"
	"time"
)

// ActivityWindow counts distinct keys seen within a trailing window.
type ActivityWindow struct {
	mu       sync.Mutex
	window   time.Duration
	lastSeen map[string]time.Time
}

func NewActivityWindow(window time.Duration) *ActivityWindow {
	return &ActivityWindow{window: window, lastSeen: make(map[string]time.Time)}
}

func (w *ActivityWindow) Touch(key string, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.lastSeen[key]; !ok || now.After(prev) {
		w.lastSeen[key] = now
	}
	w.prune(now)
	return len(w.lastSeen)
}

func (w *ActivityWindow) Count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now)
	return len(w.lastSeen)
}

func (w *ActivityWindow) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	for key, seen := range w.lastSeen {
		if !seen.After(cutoff) {
			delete(w.lastSeen, key)
		}
	}
}
