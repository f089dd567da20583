package engine

import (
	"errors"
	"fmt"
)

// ErrChapterNotFound indicates an operation referenced a chapter number
// with no recorded text. The operation performs no state mutation.
var ErrChapterNotFound = errors.New("chapter not found")

// ChapterNotFoundError carries the missing chapter number.
type ChapterNotFoundError struct {
	Chapter int
}

func (e *ChapterNotFoundError) Error() string {
	return fmt.Sprintf("chapter %d not found", e.Chapter)
}

func (e *ChapterNotFoundError) Unwrap() error {
	return ErrChapterNotFound
}
