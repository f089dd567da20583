package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an operation referenced a plot point or arc
	// that is not present in the graph. Operations that return it perform
	// no state mutation.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is reserved for future invariant checks, such as
	// resolving an already-abandoned plot point. No operation raises it yet.
	ErrInvalidState = errors.New("invalid state")
)

// NotFoundError identifies which entity an operation failed to find.
type NotFoundError struct {
	Kind string // "plot point" or "story arc"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
