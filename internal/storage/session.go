package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SessionDir returns the store-relative directory for a generation session,
// namespaced under sessions/ with the session's own timestamped id.
func SessionDir(sessionID string) string {
	return filepath.Join("sessions", sessionID)
}

// ChapterFilename builds the canonical per-chapter filename inside a
// session directory, e.g. chapter_007.txt.
func ChapterFilename(chapter int, format string) string {
	return fmt.Sprintf("chapter_%03d.%s", chapter, format)
}

// SanitizeTitle converts a book or session title to a safe filename
// component: lowercase, hyphen-separated, punctuation stripped.
func SanitizeTitle(s string, maxLen int) string {
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '/', r == '\\', r == ':', r == '.', r == '_':
			b.WriteRune('-')
		}
	}
	out := b.String()

	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")

	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	if out == "" {
		out = "book"
	}
	return out
}

// SessionManifest renders a small markdown manifest written alongside the
// exported chapters.
func SessionManifest(sessionID, title string, chapters, totalWords int) []byte {
	manifest := fmt.Sprintf(`# Session Manifest

**Session ID**: %s
**Date**: %s
**Title**: %s
**Chapters**: %d
**Total words**: %d

This directory contains all chapters exported from the generation session.
`, sessionID, time.Now().Format("2006-01-02 15:04:05"), title, chapters, totalWords)

	return []byte(manifest)
}
