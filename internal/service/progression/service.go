package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/domain/achievement"
)

// Common progression errors. Service methods return these sentinels for
// expected conditions; callers match them with errors.Is and the API layer
// maps them to HTTP status codes.
var (
	// ErrNotEnrolled indicates the user has no active enrollment.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotEnrolled = errors.New("user has no active enrollment")

	// ErrDayLocked indicates the user tried to access a day beyond their
	// current position. API layer should map this to HTTP 303 See Other,
	// redirecting to the current day.
	ErrDayLocked = errors.New("day is locked")

	// ErrDayOutOfRange indicates a day index outside the sprint curriculum.
	// API layer should map this to HTTP 404 Not Found.
	ErrDayOutOfRange = errors.New("day is outside the sprint curriculum")
)

// ServiceError is a custom error type for progression service errors.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("progression service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("progression service %s failed: %s", e.Operation, e.Message)
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

// EnrollmentRepository defines the enrollment persistence interface for the
// service layer.
type EnrollmentRepository interface {
	// Create saves a new enrollment, failing with
	// store.ErrActiveEnrollmentExists if the user already has one active.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// GetActive returns the user's single active enrollment.
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error)

	// UpdateStatus transitions an active enrollment to a terminal status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) EnrollmentRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ProgressRepository defines the day progress persistence interface for the
// service layer.
type ProgressRepository interface {
	// Create saves a new day progress record.
	Create(ctx context.Context, progress *domain.DayProgress) error

	// Get returns the progress record for one day.
	Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)

	// ListByUser returns all of the user's progress records ordered by day.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error)

	// StartIfAccessible conditionally transitions available -> in_progress.
	StartIfAccessible(ctx context.Context, userID uuid.UUID, day int, startedAt time.Time) (*domain.DayProgress, bool, error)

	// CompleteIfOpen conditionally transitions available/in_progress -> completed.
	CompleteIfOpen(ctx context.Context, userID uuid.UUID, day int, completedAt time.Time) (*domain.DayProgress, bool, error)

	// Unlock inserts an available record or promotes a locked one.
	Unlock(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ProgressRepository
}

// CompletionResult is the outcome of a CompleteDay call.
type CompletionResult struct {
	// Progress is the day's record after the call.
	Progress *domain.DayProgress

	// Unlocked is the next day's record when completing this day made it
	// available; nil on the final day or when the call was a no-op.
	Unlocked *domain.DayProgress

	// Achievements are the events newly derivable from the user's history.
	Achievements []achievement.Event

	// AlreadyCompleted reports that the day was completed before this call
	// and nothing changed.
	AlreadyCompleted bool
}

// ProgressionService orchestrates enrollment and day-by-day advancement
// through the sprint curriculum.
type ProgressionService interface {
	// Enroll creates an active enrollment for the user in the given cohort
	// and seeds day 0 as available. If the user already has an active
	// enrollment it is returned with created == false.
	Enroll(ctx context.Context, userID, cohortID uuid.UUID) (enrollment *domain.Enrollment, created bool, err error)

	// StartDay transitions an available day to in_progress. Starting a day
	// that is already underway or completed is a no-op returning the
	// current record. Returns ErrDayLocked for days not yet reachable.
	StartDay(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)

	// CompleteDay marks a day completed, unlocks the next day, and derives
	// achievements. Completing an already completed day is a full no-op.
	// Returns ErrDayLocked for days not yet reachable.
	CompleteDay(ctx context.Context, userID uuid.UUID, day int) (*CompletionResult, error)

	// GetCurrentDay returns the lowest day the user has not completed,
	// the frontier of their progress.
	GetCurrentDay(ctx context.Context, userID uuid.UUID) (int, error)

	// GetProgress returns the user's full progress history ordered by day.
	GetProgress(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error)

	// ExpireEnrollment transitions the user's active enrollment to expired.
	// Expiring a user with no active enrollment is a no-op.
	ExpireEnrollment(ctx context.Context, userID uuid.UUID) error
}
