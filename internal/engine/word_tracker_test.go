package engine

import "testing"

func TestWordTrackerRecordReplacesCount(t *testing.T) {
	wt := NewWordTracker()
	wt.SetTarget(1, 10)

	if got := wt.Record(1, "one two three"); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	if got := wt.Record(1, "one two three four five"); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
	if wt.TotalWords != 5 {
		t.Errorf("total = %d, want 5 (replaced, not summed)", wt.TotalWords)
	}

	wt.Record(2, "six seven")
	if wt.TotalWords != 7 {
		t.Errorf("total = %d, want 7 across chapters", wt.TotalWords)
	}
}

func TestWordTrackerNeedsAdjustment(t *testing.T) {
	wt := NewWordTracker()

	// No target set: never flags.
	wt.Record(1, "a b c")
	if flagged, _ := wt.NeedsAdjustment(1, 0.2); flagged {
		t.Error("chapter without target should never flag")
	}

	wt.SetTarget(2, 100)
	wt.Record(2, wordsOf(70))
	if flagged, msg := wt.NeedsAdjustment(2, 0.2); !flagged || msg == "" {
		t.Error("70/100 with 20% threshold should flag as short")
	}

	wt.SetTarget(3, 100)
	wt.Record(3, wordsOf(90))
	if flagged, _ := wt.NeedsAdjustment(3, 0.2); flagged {
		t.Error("90/100 is within a 20% threshold")
	}

	wt.SetTarget(4, 100)
	wt.Record(4, wordsOf(130))
	if flagged, _ := wt.NeedsAdjustment(4, 0.2); !flagged {
		t.Error("130/100 should flag as over")
	}
}

func TestEstimateReadingTime(t *testing.T) {
	if got := EstimateReadingTime(2250); got != 10 {
		t.Errorf("reading time = %d, want 10", got)
	}
}

func wordsOf(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "w "
	}
	return s
}
