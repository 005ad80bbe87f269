package strategycache

import (
	"errors"
	"fmt"
)

// Error types for specific failure scenarios
var (
	// ErrInvalidValue indicates a nil value handle was passed to Add or Update
	ErrInvalidValue = errors.New("invalid nil value")

	// ErrInvalidConfig indicates invalid configuration options
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ListenerError represents a strategy or observer callback failure during
// event dispatch. The triggering operation is aborted at the point of
// failure and the cache may be left partially mutated; callers should
// Clear and rebuild rather than assume atomicity.
type ListenerError struct {
	Event EventKind
	Err   error
}

// Error implements the error interface
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener failed during %s event: %v", e.Event, e.Err)
}

// Unwrap returns the wrapped error
func (e *ListenerError) Unwrap() error {
	return e.Err
}
