package dialogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
)

// ErrDialogueUnavailable indicates the dialogue could not be produced, the
// cache was empty, and generation failed. API layer should map this to
// HTTP 502 Bad Gateway.
var ErrDialogueUnavailable = errors.New("dialogue could not be generated")

// ServiceError is a custom error type for dialogue service errors.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dialogue service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("dialogue service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ProgressReader is the slice of progress persistence the dialogue service
// needs for access checks.
type ProgressReader interface {
	Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)
}

// EnrollmentReader is the slice of enrollment persistence the dialogue
// service needs for access checks.
type EnrollmentReader interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error)
}

// DialogueService serves per-user lesson dialogue, generating on miss and
// regenerating when the lesson inputs have changed since the cached entry
// was produced.
type DialogueService interface {
	// GetDialogue returns the dialogue for the given day, from cache when
	// fresh. Returns progression.ErrDayLocked for days the user has not
	// reached and progression.ErrNotEnrolled without an active enrollment.
	GetDialogue(ctx context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error)

	// WarmDialogue generates and caches the day's dialogue ahead of the
	// user opening it. Warming an already fresh entry is a no-op.
	WarmDialogue(ctx context.Context, userID uuid.UUID, day int) error
}
