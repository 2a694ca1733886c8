package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSlotUnavailable = errors.New("time slot is not available")
	ErrNotFound        = errors.New("booking not found")
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
