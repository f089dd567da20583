package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vampirenirmal/storyteller/internal/storage"
)

// ExportFormat selects the on-disk representation of exported chapters.
type ExportFormat string

const (
	FormatText ExportFormat = "txt"
	FormatJSON ExportFormat = "json"
)

// exportedChapter is the JSON shape of one chapter when exporting as json.
type exportedChapter struct {
	Metadata ChapterMetadata `json:"metadata"`
	Text     string          `json:"text"`
}

// ExportBook writes every generated chapter, the plot state snapshot and a
// session manifest under the session's directory in the store. Chapters are
// written concurrently; the first failure cancels the remaining writes.
func (e *Engine) ExportBook(ctx context.Context, store storage.Storage, title string, format ExportFormat) error {
	switch format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	e.mu.Lock()
	sessionID := e.session.ID
	totalWords := e.session.TotalWords
	chapters := make(map[int]string, len(e.chapters))
	for n, text := range e.chapters {
		chapters[n] = text
	}
	metadata := make(map[int]ChapterMetadata, len(e.metadata))
	for n, md := range e.metadata {
		metadata[n] = *md
	}
	e.mu.Unlock()

	if len(chapters) == 0 {
		return fmt.Errorf("nothing to export: no chapters generated")
	}

	dir := filepath.Join(storage.SessionDir(sessionID), storage.SanitizeTitle(title, 40))

	g, ctx := errgroup.WithContext(ctx)
	for number, text := range chapters {
		number, text := number, text // per-iteration copies: go directive predates Go 1.22 loopvar semantics
		g.Go(func() error {
			name := storage.ChapterFilename(number, string(format))
			data := []byte(text)
			if format == FormatJSON {
				var err error
				data, err = json.MarshalIndent(exportedChapter{
					Metadata: metadata[number],
					Text:     text,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding chapter %d: %w", number, err)
				}
			}
			if err := store.Save(ctx, filepath.Join(dir, name), data); err != nil {
				return fmt.Errorf("saving chapter %d: %w", number, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		state, err := json.MarshalIndent(e.graph.ExportState(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding plot state: %w", err)
		}
		return store.Save(ctx, filepath.Join(dir, "plot_state.json"), state)
	})

	g.Go(func() error {
		manifest := storage.SessionManifest(sessionID, title, len(chapters), totalWords)
		return store.Save(ctx, filepath.Join(dir, "MANIFEST.md"), manifest)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("book exported",
		"session_id", sessionID,
		"chapters", len(chapters),
		"format", format,
		"dir", dir)
	return nil
}
