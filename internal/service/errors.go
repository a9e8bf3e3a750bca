package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotReady is returned when a request arrives before the engine is built.
	ErrNotReady = errors.New("engine not ready")

	// ErrEmptyMessage is the reason for a blank chat message.
	ErrEmptyMessage = errors.New("cannot be empty")
	// ErrMessageTooLong is the reason for a message over MaxMessageLength.
	ErrMessageTooLong = errors.New("is too long")
)

// ValidationError represents a validation error on a field. Err is the
// reason, usually one of the sentinel errors above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %v", e.Field, e.Err)
}

// Unwrap lets errors.Is match both ErrInvalidInput and the specific reason.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{e.Err, ErrInvalidInput}
}
