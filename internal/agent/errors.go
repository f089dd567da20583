package agent

import (
	"errors"
	"fmt"
)

// ErrGeneration marks any failure of the external generator: transport,
// auth, quota or malformed responses.
var ErrGeneration = errors.New("generation failed")

// GenerationError wraps a generator failure with provider context. The
// underlying cause is preserved and surfaced to callers verbatim.
type GenerationError struct {
	Provider   string
	StatusCode int // zero when the failure happened before an HTTP response
	Cause      error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s generation failed (status %d): %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrGeneration) match any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}
