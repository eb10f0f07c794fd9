package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTransition is returned when a status change would move an
	// entity backwards or skip a required intermediate state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidEnrollmentStatus is returned when an enrollment status value
	// is not one of active, expired, or cancelled.
	ErrInvalidEnrollmentStatus = errors.New("invalid enrollment status")

	// ErrInvalidDayStatus is returned when a day progress status value is not
	// one of locked, available, in_progress, or completed.
	ErrInvalidDayStatus = errors.New("invalid day status")

	// ErrNegativeDay is returned when a curriculum day index is negative.
	ErrNegativeDay = errors.New("day cannot be negative")
)

// ValidationError describes a validation failure on a named field. It wraps
// an underlying sentinel so callers can still match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
