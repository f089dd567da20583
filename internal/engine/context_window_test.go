package engine

import (
	"strings"
	"testing"
)

func TestContextWindowTruncatesFragments(t *testing.T) {
	w := NewContextWindow(100, 10)
	w.Append(strings.Repeat("x", 50))

	got := w.Snapshot()
	if len(got) != 1 {
		t.Fatalf("fragments = %d, want 1", len(got))
	}
	if len(got[0]) != 10 {
		t.Errorf("fragment length = %d, want truncated to 10", len(got[0]))
	}
	if w.Size() != 10 {
		t.Errorf("size = %d, want 10", w.Size())
	}
}

func TestContextWindowEvictsOldest(t *testing.T) {
	w := NewContextWindow(25, 10)
	w.Append(strings.Repeat("a", 10))
	w.Append(strings.Repeat("b", 10))
	w.Append(strings.Repeat("c", 10)) // 30 > 25, evict front

	got := w.Snapshot()
	if len(got) != 2 {
		t.Fatalf("fragments = %d, want 2 after eviction", len(got))
	}
	if !strings.HasPrefix(got[0], "b") || !strings.HasPrefix(got[1], "c") {
		t.Errorf("oldest fragment should go first: %v", got)
	}
	if w.Size() > 25 {
		t.Errorf("size = %d exceeds max 25 after append", w.Size())
	}
}

func TestContextWindowNeverEvictsJustAppended(t *testing.T) {
	// Fragment cap larger than the window is clamped, so a single append
	// always fits and survives.
	w := NewContextWindow(10, 50)
	w.Append(strings.Repeat("z", 40))

	got := w.Snapshot()
	if len(got) != 1 {
		t.Fatalf("fragments = %d, want the appended one kept", len(got))
	}
	if len(got[0]) != 10 {
		t.Errorf("fragment length = %d, want clamped to window size 10", len(got[0]))
	}
}

func TestContextWindowCountsRunes(t *testing.T) {
	w := NewContextWindow(100, 5)
	w.Append("аяаяаяая") // 8 runes, 16 bytes

	got := w.Snapshot()
	if want := "аяаяа"; got[0] != want {
		t.Errorf("truncated fragment = %q, want %q", got[0], want)
	}
	if w.Size() != 5 {
		t.Errorf("size = %d, want 5 runes", w.Size())
	}
}
