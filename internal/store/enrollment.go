package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
)

// EnrollmentStore defines the interface for enrollment persistence.
type EnrollmentStore interface {
	// Create saves a new enrollment to the store.
	// Returns ErrActiveEnrollmentExists if the user already has an active
	// enrollment. Returns validation errors from the domain Enrollment if
	// data is invalid.
	Create(ctx context.Context, enrollment *domain.Enrollment) error

	// GetByID retrieves an enrollment by its unique ID.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)

	// GetActive retrieves the user's single active enrollment.
	// Returns ErrEnrollmentNotFound if the user has no active enrollment;
	// never returns more than one.
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error)

	// UpdateStatus transitions an enrollment from active to the given
	// terminal status. The transition is idempotent: if the enrollment is
	// already expired or cancelled the call is a no-op, not an error.
	// Returns ErrEnrollmentNotFound if the enrollment does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error

	// WithTx returns a new EnrollmentStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) EnrollmentStore
}
