package engine

import (
	"fmt"
	"strings"
)

// WordTracker follows per-chapter word counts against their targets.
type WordTracker struct {
	ChapterTargets map[int]int `json:"chapter_targets"`
	ChapterActuals map[int]int `json:"chapter_actuals"`
	TotalWords     int         `json:"total_words"`
}

func NewWordTracker() *WordTracker {
	return &WordTracker{
		ChapterTargets: make(map[int]int),
		ChapterActuals: make(map[int]int),
	}
}

// SetTarget records the word target for a chapter.
func (wt *WordTracker) SetTarget(chapter, words int) {
	wt.ChapterTargets[chapter] = words
}

// Record stores the actual word count of a chapter's text, replacing any
// prior count, and refreshes the running total.
func (wt *WordTracker) Record(chapter int, text string) int {
	words := CountWords(text)
	wt.ChapterActuals[chapter] = words

	total := 0
	for _, w := range wt.ChapterActuals {
		total += w
	}
	wt.TotalWords = total
	return words
}

// Progress reports actual vs target for a chapter; percentage is zero when
// no target was set.
func (wt *WordTracker) Progress(chapter int) (actual, target int, percentage float64) {
	actual = wt.ChapterActuals[chapter]
	target = wt.ChapterTargets[chapter]
	if target == 0 {
		return actual, target, 0
	}
	return actual, target, float64(actual) / float64(target)
}

// NeedsAdjustment flags a chapter whose length deviates from its target by
// more than the threshold fraction.
func (wt *WordTracker) NeedsAdjustment(chapter int, threshold float64) (bool, string) {
	actual, target, pct := wt.Progress(chapter)
	if target == 0 {
		return false, ""
	}
	if pct < 1.0-threshold {
		return true, fmt.Sprintf("chapter %d is %d words short (%.1f%% of target)",
			chapter, target-actual, pct*100)
	}
	if pct > 1.0+threshold {
		return true, fmt.Sprintf("chapter %d is %d words over (%.1f%% of target)",
			chapter, actual-target, pct*100)
	}
	return false, ""
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingTime estimates reading time in minutes at an average pace.
func EstimateReadingTime(wordCount int) int {
	return wordCount / 225
}
