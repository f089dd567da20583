package engine

import (
	"sync"
	"unicode/utf8"
)

// ContextWindow keeps a bounded rolling history of narrative fragments in
// insertion order. Fragments are capped at append time and the oldest are
// evicted once the total length exceeds the configured maximum, so the
// total never exceeds maxSize after an append returns. Because the
// per-fragment cap never exceeds maxSize, eviction can never remove the
// fragment just appended. Lengths are counted in runes.
type ContextWindow struct {
	mu          sync.RWMutex
	fragments   []string
	total       int
	maxSize     int
	fragmentCap int
}

// NewContextWindow creates a window bounded at maxSize total characters,
// storing at most fragmentCap characters per fragment. A fragment cap
// larger than maxSize is clamped to keep the eviction invariant structural.
func NewContextWindow(maxSize, fragmentCap int) *ContextWindow {
	if fragmentCap > maxSize {
		fragmentCap = maxSize
	}
	return &ContextWindow{
		maxSize:     maxSize,
		fragmentCap: fragmentCap,
	}
}

// Append stores the fragment, truncated to the per-fragment cap, then
// evicts from the front until the total fits the window again.
func (w *ContextWindow) Append(fragment string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if runes := []rune(fragment); len(runes) > w.fragmentCap {
		fragment = string(runes[:w.fragmentCap])
	}

	w.fragments = append(w.fragments, fragment)
	w.total += utf8.RuneCountInString(fragment)

	for w.total > w.maxSize && len(w.fragments) > 1 {
		w.total -= utf8.RuneCountInString(w.fragments[0])
		w.fragments = w.fragments[1:]
	}
}

// Snapshot returns a copy of the current fragment sequence, oldest first.
func (w *ContextWindow) Snapshot() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.fragments))
	copy(out, w.fragments)
	return out
}

// Size returns the total character length of all stored fragments.
func (w *ContextWindow) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.total
}

// Len returns the number of stored fragments.
func (w *ContextWindow) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.fragments)
}
