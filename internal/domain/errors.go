package domain

import (
	"errors"
	"fmt"
)

// InvalidInputError reports an input value the engine refuses to compute with.
// Field names the offending input using the same path the caller supplied,
// e.g. "liabilities[mortgage].interest_rate".
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError with a formatted reason.
func NewInvalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var (
	// ErrUnknownOverrideField is returned when an override names a field that
	// is not part of the target entity's closed override set.
	ErrUnknownOverrideField = errors.New("unknown override field")

	// ErrUnknownEntity is returned when an override targets an id that does not
	// exist in the household.
	ErrUnknownEntity = errors.New("unknown entity")
)

// IsInvalidInput reports whether err wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
