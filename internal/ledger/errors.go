package ledger

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the user declines a confirmation prompt.
// The triggering operation performs no writes.
var ErrDeclined = errors.New("confirmation declined")

// ValidationError reports a missing or out-of-range input. The operation that
// produced it has not mutated any state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ContextMissingError reports that the sell recorder was invoked without a
// well-formed handoff context (missing or non-positive parameters).
type ContextMissingError struct {
	Reason string
}

func (e *ContextMissingError) Error() string {
	return fmt.Sprintf("sell context incomplete: %s", e.Reason)
}
