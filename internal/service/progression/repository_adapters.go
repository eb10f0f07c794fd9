package progression

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/store"
)

// NewEnrollmentRepositoryAdapter creates an adapter that allows a
// store.EnrollmentStore to be used where an EnrollmentRepository is expected.
func NewEnrollmentRepositoryAdapter(enrollmentStore store.EnrollmentStore, db *sql.DB) EnrollmentRepository {
	return &enrollmentRepositoryAdapter{
		enrollmentStore: enrollmentStore,
		db:              db,
	}
}

// enrollmentRepositoryAdapter adapts a store.EnrollmentStore to the
// EnrollmentRepository interface
type enrollmentRepositoryAdapter struct {
	enrollmentStore store.EnrollmentStore
	db              *sql.DB
}

// Create implements EnrollmentRepository.Create
func (a *enrollmentRepositoryAdapter) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	return a.enrollmentStore.Create(ctx, enrollment)
}

// GetActive implements EnrollmentRepository.GetActive
func (a *enrollmentRepositoryAdapter) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Enrollment, error) {
	return a.enrollmentStore.GetActive(ctx, userID)
}

// UpdateStatus implements EnrollmentRepository.UpdateStatus
func (a *enrollmentRepositoryAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EnrollmentStatus) error {
	return a.enrollmentStore.UpdateStatus(ctx, id, status)
}

// WithTx implements EnrollmentRepository.WithTx
func (a *enrollmentRepositoryAdapter) WithTx(tx *sql.Tx) EnrollmentRepository {
	return &enrollmentRepositoryAdapter{
		enrollmentStore: a.enrollmentStore.WithTx(tx),
		db:              a.db,
	}
}

// DB implements EnrollmentRepository.DB
func (a *enrollmentRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewProgressRepositoryAdapter creates an adapter that allows a
// store.ProgressStore to be used where a ProgressRepository is expected.
func NewProgressRepositoryAdapter(progressStore store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{
		progressStore: progressStore,
	}
}

// progressRepositoryAdapter adapts a store.ProgressStore to the
// ProgressRepository interface
type progressRepositoryAdapter struct {
	progressStore store.ProgressStore
}

// Create implements ProgressRepository.Create
func (a *progressRepositoryAdapter) Create(ctx context.Context, progress *domain.DayProgress) error {
	return a.progressStore.Create(ctx, progress)
}

// Get implements ProgressRepository.Get
func (a *progressRepositoryAdapter) Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	return a.progressStore.Get(ctx, userID, day)
}

// ListByUser implements ProgressRepository.ListByUser
func (a *progressRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error) {
	return a.progressStore.ListByUser(ctx, userID)
}

// StartIfAccessible implements ProgressRepository.StartIfAccessible
func (a *progressRepositoryAdapter) StartIfAccessible(ctx context.Context, userID uuid.UUID, day int, startedAt time.Time) (*domain.DayProgress, bool, error) {
	return a.progressStore.StartIfAccessible(ctx, userID, day, startedAt)
}

// CompleteIfOpen implements ProgressRepository.CompleteIfOpen
func (a *progressRepositoryAdapter) CompleteIfOpen(ctx context.Context, userID uuid.UUID, day int, completedAt time.Time) (*domain.DayProgress, bool, error) {
	return a.progressStore.CompleteIfOpen(ctx, userID, day, completedAt)
}

// Unlock implements ProgressRepository.Unlock
func (a *progressRepositoryAdapter) Unlock(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	return a.progressStore.Unlock(ctx, userID, day)
}

// WithTx implements ProgressRepository.WithTx
func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{
		progressStore: a.progressStore.WithTx(tx),
	}
}
