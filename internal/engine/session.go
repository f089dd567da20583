package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerationSession accumulates the results of one engine lifetime. The
// engine owns exactly one session, created at construction.
type GenerationSession struct {
	ID                string             `json:"session_id"`
	StartTime         time.Time          `json:"start_time"`
	ChaptersGenerated []int              `json:"chapters_generated"`
	TotalWords        int                `json:"total_words"`
	QualityScores     map[string]float64 `json:"quality_scores"`
}

// newSession derives the session id from the creation timestamp, with a
// short random suffix to keep concurrent engine instances distinct.
func newSession(now time.Time) *GenerationSession {
	return &GenerationSession{
		ID:            fmt.Sprintf("%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8]),
		StartTime:     now,
		QualityScores: make(map[string]float64),
	}
}

// SessionStats summarizes the active session and the plot state it has
// driven so far.
type SessionStats struct {
	SessionID          string  `json:"session_id"`
	ChaptersGenerated  int     `json:"chapters_generated"`
	TotalWords         int     `json:"total_words"`
	AverageWords       float64 `json:"average_words_per_chapter"`
	ActivePlots        int     `json:"active_plots"`
	ResolvedMysteries  int     `json:"resolved_mysteries"`
	RemainingMysteries int     `json:"remaining_mysteries"`
}
