package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
)

// ProgressStore defines the interface for day progress persistence.
//
// The conditional transition methods (StartIfAccessible, CompleteIfOpen,
// Unlock) are the concurrency-safe building blocks of the progression
// service: each one performs its state check and its write in a single
// statement so that two racing callers cannot both observe the old state.
type ProgressStore interface {
	// Create saves a new day progress record.
	// Returns ErrDuplicate if a record for (userID, day) already exists.
	Create(ctx context.Context, progress *domain.DayProgress) error

	// Get retrieves the progress record for a single curriculum day.
	// Returns ErrDayProgressNotFound if no record exists.
	Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)

	// ListByUser retrieves all of the user's progress records ordered by
	// day ascending. Returns an empty slice when the user has none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error)

	// StartIfAccessible conditionally transitions the day from available to
	// in_progress, recording startedAt. The returned bool reports whether
	// the transition applied; when it is false the returned record carries
	// the day's current status so the caller can distinguish an already
	// started or completed day from a locked one.
	// Returns ErrDayProgressNotFound if no record exists.
	StartIfAccessible(ctx context.Context, userID uuid.UUID, day int, startedAt time.Time) (*domain.DayProgress, bool, error)

	// CompleteIfOpen conditionally transitions the day from available or
	// in_progress to completed, recording completedAt. The returned bool
	// reports whether the transition applied; when it is false the returned
	// record carries the day's current status (completed or locked).
	// Returns ErrDayProgressNotFound if no record exists.
	CompleteIfOpen(ctx context.Context, userID uuid.UUID, day int, completedAt time.Time) (*domain.DayProgress, bool, error)

	// Unlock makes the day available: it inserts an available record when
	// none exists, promotes a locked record to available, and leaves any
	// other status untouched. It is idempotent and returns the record's
	// state after the call.
	Unlock(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) ProgressStore
}
