// Package engine orchestrates chapter generation. It owns the generation
// session, the chapter text store and the context window, and mediates all
// writes into the plot graph. One generation call runs to completion before
// the next; the engine itself admits one call at a time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vampirenirmal/storyteller/internal/agent"
	"github.com/vampirenirmal/storyteller/internal/plot"
	"github.com/vampirenirmal/storyteller/internal/prompts"
)

// Mode selects the narrative frame for a chapter.
type Mode string

const (
	ModeFrame Mode = "frame" // outer present-time narration
	ModeInner Mode = "inner" // embedded first-person retrospective
)

// ChapterConfig is the immutable per-call input to GenerateChapter.
type ChapterConfig struct {
	ChapterNumber   int      `json:"chapter_number" validate:"required,min=1"`
	Mode            Mode     `json:"mode" validate:"required,oneof=frame inner"`
	TargetWordCount int      `json:"target_word_count" validate:"required,min=1"`
	Mood            string   `json:"mood"`
	TimeOfDay       string   `json:"time_of_day"`
	Introduce       []string `json:"introduce,omitempty"`
	Resolve         []string `json:"resolve,omitempty"`
	KeyScenes       []string `json:"key_scenes,omitempty"`
}

// ChapterMetadata describes one generated chapter. CharactersPresent,
// LocationsPresent and AnalyzedMood are populated from external text-mining
// output; the engine stores them without interpreting them.
type ChapterMetadata struct {
	ChapterNumber     int       `json:"chapter_number"`
	Mode              Mode      `json:"mode"`
	WordCount         int       `json:"word_count"`
	GeneratedAt       time.Time `json:"generated_at"`
	LastUpdated       time.Time `json:"last_updated,omitempty"`
	Introduced        []string  `json:"plot_points_introduced,omitempty"`
	Resolved          []string  `json:"plot_points_resolved,omitempty"`
	CharactersPresent []string  `json:"characters_present,omitempty"`
	LocationsPresent  []string  `json:"locations_present,omitempty"`
	AnalyzedMood      string    `json:"analyzed_mood,omitempty"`
}

// Analysis is the output of the external text-mining collaborator.
type Analysis struct {
	CharactersPresent []string `json:"characters_present"`
	LocationsPresent  []string `json:"locations_present"`
	Mood              string   `json:"mood"`
}

const (
	defaultMaxContextSize = 50000
	defaultFragmentCap    = 5000
	prevChapterTailRunes  = 1000
	maxActivePlotsInCtx   = 3
	maxMysteriesInCtx     = 3
	styleReminderInterval = 5
)

// Engine sequences context preparation, prompt assembly, generator
// invocation and post-generation state updates.
type Engine struct {
	mu         sync.Mutex
	generator  agent.Generator
	graph      *plot.Graph
	characters map[string]prompts.CharacterProfile
	session    *GenerationSession
	chapters   map[int]string
	metadata   map[int]*ChapterMetadata
	window     *ContextWindow
	tracker    *WordTracker
	genCfg     agent.GenConfig
	validate   *validator.Validate
	logger     *slog.Logger
}

type Option func(*Engine)

// WithContextLimits overrides the context window bounds.
func WithContextLimits(maxSize, fragmentCap int) Option {
	return func(e *Engine) {
		e.window = NewContextWindow(maxSize, fragmentCap)
	}
}

// WithCharacters replaces the default cast.
func WithCharacters(characters map[string]prompts.CharacterProfile) Option {
	return func(e *Engine) {
		e.characters = characters
	}
}

// WithGenConfig overrides the generation parameters used for full chapters.
// Continuations derive from the same parameters with half the token budget;
// edits reuse the token budget at a lower temperature.
func WithGenConfig(cfg agent.GenConfig) Option {
	return func(e *Engine) {
		e.genCfg = cfg
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an engine around a generator and a plot graph. The generation
// session is created here, not lazily on first use.
func New(generator agent.Generator, graph *plot.Graph, opts ...Option) *Engine {
	e := &Engine{
		generator:  generator,
		graph:      graph,
		characters: prompts.DefaultCharacters(),
		session:    newSession(time.Now()),
		chapters:   make(map[int]string),
		metadata:   make(map[int]*ChapterMetadata),
		window:     NewContextWindow(defaultMaxContextSize, defaultFragmentCap),
		tracker:    NewWordTracker(),
		genCfg:     agent.DefaultGenConfig(),
		validate:   validator.New(),
		logger:     slog.Default().With("component", "story_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger.Info("generation session started", "session_id", e.session.ID)
	return e
}

// GenerateChapter runs the full generation pipeline for one chapter. A
// generator failure aborts the call with no state mutation. Plot-graph
// failures during the post-generation update are per-id: the failing id is
// skipped and later updates continue.
func (e *Engine) GenerateChapter(ctx context.Context, cfg ChapterConfig) (string, *ChapterMetadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate.Struct(cfg); err != nil {
		return "", nil, fmt.Errorf("invalid chapter config: %w", err)
	}

	e.logger.Info("generating chapter",
		"session_id", e.session.ID,
		"chapter", cfg.ChapterNumber,
		"mode", cfg.Mode,
		"target_words", cfg.TargetWordCount)

	chapterContext := e.prepareChapterContext(cfg)
	plotContext := e.preparePlotContext(cfg)
	prompt := assemblePrompt(cfg, chapterContext, plotContext)
	systemPrompt := prompts.SystemPrompt(string(cfg.Mode))

	text, err := e.generator.Generate(ctx, systemPrompt,
		[]agent.Message{{Role: "user", Content: prompt}},
		e.genCfg)
	if err != nil {
		e.logger.Error("chapter generation failed",
			"chapter", cfg.ChapterNumber,
			"error", err)
		return "", nil, err
	}

	e.chapters[cfg.ChapterNumber] = text

	e.tracker.SetTarget(cfg.ChapterNumber, cfg.TargetWordCount)
	wordCount := e.tracker.Record(cfg.ChapterNumber, text)
	md := &ChapterMetadata{
		ChapterNumber: cfg.ChapterNumber,
		Mode:          cfg.Mode,
		WordCount:     wordCount,
		GeneratedAt:   time.Now(),
		Introduced:    cfg.Introduce,
		Resolved:      cfg.Resolve,
	}
	e.metadata[cfg.ChapterNumber] = md

	e.window.Append(text)
	e.updatePlotState(cfg)
	e.session.ChaptersGenerated = append(e.session.ChaptersGenerated, cfg.ChapterNumber)
	e.session.TotalWords += wordCount

	e.logger.Info("chapter generated",
		"chapter", cfg.ChapterNumber,
		"word_count", wordCount,
		"session_total_words", e.session.TotalWords)

	return text, md, nil
}

// updatePlotState applies the config's introduce/resolve lists. Unknown ids
// fail individually without rolling back earlier updates.
func (e *Engine) updatePlotState(cfg ChapterConfig) {
	for _, id := range cfg.Introduce {
		if err := e.graph.Introduce(id, cfg.ChapterNumber); err != nil {
			e.logger.Warn("skipping unknown plot point on introduce",
				"plot_id", id,
				"chapter", cfg.ChapterNumber,
				"error", err)
		}
	}
	for _, id := range cfg.Resolve {
		note := fmt.Sprintf("resolved in chapter %d", cfg.ChapterNumber)
		if err := e.graph.Resolve(id, note, cfg.ChapterNumber); err != nil {
			e.logger.Warn("skipping unknown plot point on resolve",
				"plot_id", id,
				"chapter", cfg.ChapterNumber,
				"error", err)
		}
	}
}

// prepareChapterContext gathers the narrative context block: the tail of
// the previous chapter, character-state hints keyed by scene mentions, and
// the periodic style reminder for frame chapters.
func (e *Engine) prepareChapterContext(cfg ChapterConfig) string {
	var parts []string

	if cfg.ChapterNumber > 1 {
		if prev, ok := e.chapters[cfg.ChapterNumber-1]; ok {
			parts = append(parts, "End of the previous chapter:\n"+tail(prev, prevChapterTailRunes))
		}
	}

	for _, scene := range cfg.KeyScenes {
		for key, profile := range e.characters {
			if containsFold(scene, key) || containsFold(scene, profile.Name) {
				parts = append(parts, fmt.Sprintf("State of %s: %s", profile.Name, profile.CurrentState))
			}
		}
	}

	if cfg.Mode == ModeFrame && cfg.ChapterNumber%styleReminderInterval == 1 {
		parts = append(parts, prompts.StyleReminder)
	}

	return strings.Join(parts, "\n\n")
}

// preparePlotContext gathers the plot block: a few active plots, the
// explicit introduce/resolve lists, and a few open mysteries.
func (e *Engine) preparePlotContext(cfg ChapterConfig) string {
	var parts []string

	active := e.graph.ActivePlots()
	if len(active) > 0 {
		if len(active) > maxActivePlotsInCtx {
			active = active[:maxActivePlotsInCtx]
		}
		lines := make([]string, len(active))
		for i, p := range active {
			lines[i] = fmt.Sprintf("- %s: %s", p.Title, p.Description)
		}
		parts = append(parts, "Active plot lines:\n"+strings.Join(lines, "\n"))
	}

	if len(cfg.Introduce) > 0 {
		parts = append(parts, "Introduce in this chapter: "+strings.Join(cfg.Introduce, ", "))
	}
	if len(cfg.Resolve) > 0 {
		parts = append(parts, "Resolve in this chapter: "+strings.Join(cfg.Resolve, ", "))
	}

	mysteries := e.graph.UnresolvedMysteries()
	if len(mysteries) > maxMysteriesInCtx {
		mysteries = mysteries[:maxMysteriesInCtx]
	}
	if len(mysteries) > 0 {
		parts = append(parts, "Keep these mysteries in mind: "+strings.Join(mysteries, ", "))
	}

	return strings.Join(parts, "\n")
}

func assemblePrompt(cfg ChapterConfig, chapterContext, plotContext string) string {
	var b strings.Builder
	b.WriteString(prompts.ChapterTemplate(string(cfg.Mode)))
	b.WriteString(fmt.Sprintf("\n\nCHAPTER %d CONTEXT:\n%s", cfg.ChapterNumber, chapterContext))
	b.WriteString(fmt.Sprintf("\n\nPLOT ELEMENTS:\n%s", plotContext))
	b.WriteString(fmt.Sprintf("\n\nTarget length: %d words.\nMood: %s", cfg.TargetWordCount, cfg.Mood))
	if cfg.TimeOfDay != "" {
		b.WriteString("\nTime of day: " + cfg.TimeOfDay)
	}
	b.WriteString("\n\nBegin the chapter and develop it organically.")
	return b.String()
}

// ContinueChapter extends an already-generated chapter by roughly
// additionalWords. It does not re-run the full pipeline: no context or plot
// updates happen, only the stored text and its word count change.
func (e *Engine) ContinueChapter(ctx context.Context, chapter, additionalWords int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.chapters[chapter]
	if !ok {
		return "", &ChapterNotFoundError{Chapter: chapter}
	}

	genCfg := e.genCfg
	genCfg.MaxTokens = e.genCfg.MaxTokens / 2
	continuation, err := e.generator.Generate(ctx, prompts.SystemContinuation,
		[]agent.Message{{Role: "user", Content: prompts.Continuation(current, additionalWords)}},
		genCfg)
	if err != nil {
		return "", err
	}

	full := current + "\n\n" + continuation
	e.chapters[chapter] = full

	if md, ok := e.metadata[chapter]; ok {
		md.WordCount = e.tracker.Record(chapter, full)
		md.LastUpdated = time.Now()
	}

	e.logger.Info("chapter continued",
		"chapter", chapter,
		"continuation_words", CountWords(continuation))

	return continuation, nil
}

// EditChapter regenerates a stored chapter under editing instructions and
// replaces the stored text.
func (e *Engine) EditChapter(ctx context.Context, chapter int, instructions string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.chapters[chapter]
	if !ok {
		return "", &ChapterNotFoundError{Chapter: chapter}
	}

	genCfg := e.genCfg
	genCfg.Temperature = 0.7
	genCfg.EnableExtendedReasoning = false
	genCfg.ReasoningBudget = 0
	edited, err := e.generator.Generate(ctx, prompts.SystemEditor,
		[]agent.Message{{Role: "user", Content: prompts.Edit(current, instructions)}},
		genCfg)
	if err != nil {
		return "", err
	}

	e.chapters[chapter] = edited
	if md, ok := e.metadata[chapter]; ok {
		md.WordCount = e.tracker.Record(chapter, edited)
		md.LastUpdated = time.Now()
	}

	return edited, nil
}

// RecordAnalysis attaches text-mining output to a chapter's metadata. The
// engine stores the values without inspecting them.
func (e *Engine) RecordAnalysis(chapter int, a Analysis) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	md, ok := e.metadata[chapter]
	if !ok {
		return &ChapterNotFoundError{Chapter: chapter}
	}
	md.CharactersPresent = a.CharactersPresent
	md.LocationsPresent = a.LocationsPresent
	md.AnalyzedMood = a.Mood
	return nil
}

// RecordQualityScore stores an externally computed quality score on the
// session.
func (e *Engine) RecordQualityScore(key string, score float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.QualityScores[key] = score
}

// Chapter returns the stored text for a chapter number.
func (e *Engine) Chapter(chapter int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, ok := e.chapters[chapter]
	return text, ok
}

// Metadata returns a copy of a chapter's metadata.
func (e *Engine) Metadata(chapter int) (ChapterMetadata, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	md, ok := e.metadata[chapter]
	if !ok {
		return ChapterMetadata{}, false
	}
	return *md, true
}

// ChapterNumbers returns the generated chapter numbers in ascending order.
func (e *Engine) ChapterNumbers() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	nums := make([]int, 0, len(e.chapters))
	for n := range e.chapters {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// ContextSnapshot exposes the current context window contents.
func (e *Engine) ContextSnapshot() []string {
	return e.window.Snapshot()
}

// Graph exposes the plot graph for read-only queries and export.
func (e *Engine) Graph() *plot.Graph {
	return e.graph
}

// WordProgress reports a chapter's actual word count against its target.
func (e *Engine) WordProgress(chapter int) (actual, target int, percentage float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Progress(chapter)
}

// NeedsAdjustment flags a chapter whose length deviates from its target by
// more than the threshold fraction.
func (e *Engine) NeedsAdjustment(chapter int, threshold float64) (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.NeedsAdjustment(chapter, threshold)
}

// SessionID returns the active session id.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.ID
}

// Stats summarizes the active session.
func (e *Engine) Stats() SessionStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	avg := 0.0
	if n := len(e.session.ChaptersGenerated); n > 0 {
		avg = float64(e.session.TotalWords) / float64(n)
	}
	return SessionStats{
		SessionID:          e.session.ID,
		ChaptersGenerated:  len(e.session.ChaptersGenerated),
		TotalWords:         e.session.TotalWords,
		AverageWords:       avg,
		ActivePlots:        len(e.graph.ActivePlots()),
		ResolvedMysteries:  len(e.graph.RevealedSecrets()),
		RemainingMysteries: len(e.graph.UnresolvedMysteries()),
	}
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
