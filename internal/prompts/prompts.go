// Package prompts holds the prompt templates and character profiles used
// to assemble chapter-generation requests.
package prompts

import "fmt"

// SystemFrame is the system prompt for present-time frame narration.
const SystemFrame = `You are a novelist completing the third book of an epic fantasy chronicle.
Write frame-narrative chapters: third person, present time, the broken
innkeeper and his quiet inn. Measured pacing, weighted silences, prose
that rewards rereading. Stay consistent with everything already written.`

// SystemInner is the system prompt for the embedded first-person telling.
const SystemInner = `You are a novelist completing the third book of an epic fantasy chronicle.
Write inner-narrative chapters: first person, retrospective, the hero
telling his own story and knowing how it ends. Musical metaphor, wry
self-awareness, the gap between the legend and the man. Stay consistent
with everything already written.`

// SystemContinuation steers mid-chapter continuations.
const SystemContinuation = `You are a novelist continuing work on a chapter in progress.
Preserve the style, tone and atmosphere of the existing text. Continue
the narration organically, without abrupt transitions.`

// SystemEditor steers chapter revisions.
const SystemEditor = `You are an editor revising a chapter of an epic fantasy chronicle.
Apply the requested changes while preserving the author's style and voice.
Return the full revised chapter.`

// FrameTemplate opens a frame-narrative chapter request.
const FrameTemplate = `Write the next frame-narrative chapter. Present time at the inn:
the innkeeper, his apprentice, the chronicler with his ink and paper.
Let small actions carry large meanings.`

// InnerTemplate opens an inner-narrative chapter request.
const InnerTemplate = `Write the next inner-narrative chapter. The hero's own telling,
first person, with the shape of the whole story already known to him.
Advance the events he has been circling toward.`

// StyleReminder is injected periodically into frame chapters.
const StyleReminder = "Open with the silence of the inn, described in three distinct parts."

// ChapterTemplate returns the opening template for the given mode string
// ("frame" or "inner"); anything else falls back to the inner template.
func ChapterTemplate(mode string) string {
	if mode == "frame" {
		return FrameTemplate
	}
	return InnerTemplate
}

// SystemPrompt returns the system prompt constant for the mode string.
func SystemPrompt(mode string) string {
	if mode == "frame" {
		return SystemFrame
	}
	return SystemInner
}

// Continuation builds the user prompt for extending an existing chapter.
func Continuation(previousText string, targetWords int) string {
	return fmt.Sprintf(`Here is the chapter text to continue:

%s

Continue writing from where it stops. Do not repeat what is already
written. Target roughly %d additional words.`, previousText, targetWords)
}

// Edit builds the user prompt for revising an existing chapter.
func Edit(originalText, instructions string) string {
	return fmt.Sprintf(`Original chapter:

%s

Editing instructions:
%s`, originalText, instructions)
}
