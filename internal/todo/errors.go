package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested todo does not exist.
// Check with errors.Is.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports a field that violates its constraints.
// Check with errors.As.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IOError wraps a failure touching the backing file.
// Check with errors.As; Unwrap exposes the underlying cause.
type IOError struct {
	Op   string // "load", "save" or "lock"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
