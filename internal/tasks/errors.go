package tasks

import "fmt"

// ValidationError reports bad user input. The operation made no change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation on an id that is not in the store,
// typically a stale selection.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}

// SaveError wraps a persistence failure after a successful in-memory
// mutation. The mutation is kept; the caller should report and continue.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save tasks: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
