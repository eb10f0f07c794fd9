package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/generation"
	"github.com/sprintlab/sprint-api/internal/service/auth"
	"github.com/sprintlab/sprint-api/internal/service/dialogue"
	"github.com/sprintlab/sprint-api/internal/service/progression"
	"github.com/sprintlab/sprint-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, progression.ErrNotEnrolled):
		return http.StatusForbidden

	// A locked day redirects to the current accessible day
	case errors.Is(err, progression.ErrDayLocked):
		return http.StatusSeeOther

	// Not found errors
	case errors.Is(err, progression.ErrDayOutOfRange),
		errors.Is(err, store.ErrEnrollmentNotFound),
		errors.Is(err, store.ErrDayProgressNotFound),
		errors.Is(err, store.ErrDialogueNotFound),
		errors.Is(err, generation.ErrLessonNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrActiveEnrollmentExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Upstream generation failures
	case errors.Is(err, dialogue.ErrDialogueUnavailable):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, progression.ErrNotEnrolled):
		return "No active sprint enrollment"

	case errors.Is(err, progression.ErrDayLocked):
		return "Day is locked"

	case errors.Is(err, progression.ErrDayOutOfRange):
		return "Day not found"

	case errors.Is(err, store.ErrEnrollmentNotFound):
		return "Enrollment not found"

	case errors.Is(err, store.ErrDayProgressNotFound):
		return "Day progress not found"

	case errors.Is(err, generation.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrActiveEnrollmentExists):
		return "User already has an active enrollment"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, dialogue.ErrDialogueUnavailable):
		return "Dialogue is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'EnrollRequest.CohortID' Error:Field validation
	// for 'CohortID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
