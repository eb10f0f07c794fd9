package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/store"
)

// PostgresEnrollmentStore implements the store.EnrollmentStore interface
// using a PostgreSQL database as the storage backend. The single-active-
// enrollment rule is enforced by a partial unique index on
// (user_id) WHERE status = 'active', so concurrent enrolls race safely.
type PostgresEnrollmentStore struct {
	db store.DBTX
}

// NewPostgresEnrollmentStore creates a new PostgreSQL implementation of the
// EnrollmentStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresEnrollmentStore(db store.DBTX) *PostgresEnrollmentStore {
	return &PostgresEnrollmentStore{
		db: db,
	}
}

// Ensure PostgresEnrollmentStore implements store.EnrollmentStore interface
var _ store.EnrollmentStore = (*PostgresEnrollmentStore)(nil)

// Create implements store.EnrollmentStore.Create
func (s *PostgresEnrollmentStore) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	log := logger.FromContext(ctx)

	if err := enrollment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO enrollments (id, user_id, cohort_id, started_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.UserID,
		enrollment.CohortID,
		enrollment.StartedAt,
		enrollment.Status,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("enrollment create hit active-enrollment constraint",
				"user_id", enrollment.UserID)
			return fmt.Errorf("%w: %v", store.ErrActiveEnrollmentExists, err)
		}
		log.Error("failed to create enrollment",
			"user_id", enrollment.UserID,
			"error", err)
		return fmt.Errorf("failed to create enrollment: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.EnrollmentStore.GetByID
func (s *PostgresEnrollmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	query := `
		SELECT id, user_id, cohort_id, started_at, status, created_at, updated_at
		FROM enrollments
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	enrollment, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment by ID: %w", MapError(err))
	}

	return enrollment, nil
}

// GetActive implements store.EnrollmentStore.GetActive
func (s *PostgresEnrollmentStore) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	query := `
		SELECT id, user_id, cohort_id, started_at, status, created_at, updated_at
		FROM enrollments
		WHERE user_id = $1 AND status = $2
	`

	row := s.db.QueryRowContext(ctx, query, userID, domain.EnrollmentStatusActive)
	enrollment, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get active enrollment: %w", MapError(err))
	}

	return enrollment, nil
}

// UpdateStatus implements store.EnrollmentStore.UpdateStatus
func (s *PostgresEnrollmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	log := logger.FromContext(ctx)

	// Only active enrollments transition; a terminal enrollment stays put
	// so repeated sweeps and retries are harmless.
	query := `
		UPDATE enrollments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		time.Now().UTC(),
		id,
		domain.EnrollmentStatusActive,
	)
	if err != nil {
		log.Error("failed to update enrollment status",
			"enrollment_id", id,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update enrollment status: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Distinguish "already terminal" (a no-op) from "does not exist".
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		log.Debug("enrollment already in terminal status, skipping update",
			"enrollment_id", id,
			"requested_status", status)
	}

	return nil
}

// WithTx implements store.EnrollmentStore.WithTx
func (s *PostgresEnrollmentStore) WithTx(tx *sql.Tx) store.EnrollmentStore {
	return NewPostgresEnrollmentStore(tx)
}

// scanEnrollment scans a single enrollment row.
func scanEnrollment(row *sql.Row) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := row.Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CohortID,
		&enrollment.StartedAt,
		&enrollment.Status,
		&enrollment.CreatedAt,
		&enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}
