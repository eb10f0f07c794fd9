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

// PostgresProgressStore implements the store.ProgressStore interface using a
// PostgreSQL database as the storage backend. The conditional transitions
// are single UPDATE statements whose WHERE clause carries the state check,
// so concurrent callers serialize on the row and at most one observes the
// old state.
type PostgresProgressStore struct {
	db store.DBTX
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresProgressStore(db store.DBTX) *PostgresProgressStore {
	return &PostgresProgressStore{
		db: db,
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const dayProgressColumns = `id, user_id, day, status, started_at, completed_at, created_at, updated_at`

// Create implements store.ProgressStore.Create
func (s *PostgresProgressStore) Create(ctx context.Context, progress *domain.DayProgress) error {
	log := logger.FromContext(ctx)

	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO day_progress (id, user_id, day, status, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.ID,
		progress.UserID,
		progress.Day,
		progress.Status,
		progress.StartedAt,
		progress.CompletedAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}
		log.Error("failed to create day progress",
			"user_id", progress.UserID,
			"day", progress.Day,
			"error", err)
		return fmt.Errorf("failed to create day progress: %w", MapError(err))
	}

	return nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	query := `
		SELECT ` + dayProgressColumns + `
		FROM day_progress
		WHERE user_id = $1 AND day = $2
	`

	row := s.db.QueryRowContext(ctx, query, userID, day)
	progress, err := scanDayProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDayProgressNotFound
		}
		return nil, fmt.Errorf("failed to get day progress: %w", MapError(err))
	}

	return progress, nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *PostgresProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT ` + dayProgressColumns + `
		FROM day_progress
		WHERE user_id = $1
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list day progress",
			"user_id", userID,
			"error", err)
		return nil, fmt.Errorf("failed to list day progress: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.DayProgress
	for rows.Next() {
		var p domain.DayProgress
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Day,
			&p.Status,
			&p.StartedAt,
			&p.CompletedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan day progress row: %w", err)
		}
		records = append(records, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day progress rows: %w", err)
	}

	return records, nil
}

// StartIfAccessible implements store.ProgressStore.StartIfAccessible
func (s *PostgresProgressStore) StartIfAccessible(ctx context.Context, userID uuid.UUID, day int, startedAt time.Time) (*domain.DayProgress, bool, error) {
	query := `
		UPDATE day_progress
		SET status = $1, started_at = $2, updated_at = $2
		WHERE user_id = $3 AND day = $4 AND status = $5
		RETURNING ` + dayProgressColumns

	row := s.db.QueryRowContext(ctx, query,
		domain.DayStatusInProgress,
		startedAt.UTC(),
		userID,
		day,
		domain.DayStatusAvailable,
	)

	progress, err := scanDayProgress(row)
	if err == nil {
		return progress, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to start day progress: %w", MapError(err))
	}

	// The transition did not apply. Re-read so the caller can see whether
	// the day is already underway, completed, locked, or simply absent.
	current, err := s.Get(ctx, userID, day)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// CompleteIfOpen implements store.ProgressStore.CompleteIfOpen
func (s *PostgresProgressStore) CompleteIfOpen(ctx context.Context, userID uuid.UUID, day int, completedAt time.Time) (*domain.DayProgress, bool, error) {
	// started_at is backfilled for days completed straight from available.
	query := `
		UPDATE day_progress
		SET status = $1, completed_at = $2, started_at = COALESCE(started_at, $2), updated_at = $2
		WHERE user_id = $3 AND day = $4 AND status IN ($5, $6)
		RETURNING ` + dayProgressColumns

	row := s.db.QueryRowContext(ctx, query,
		domain.DayStatusCompleted,
		completedAt.UTC(),
		userID,
		day,
		domain.DayStatusAvailable,
		domain.DayStatusInProgress,
	)

	progress, err := scanDayProgress(row)
	if err == nil {
		return progress, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to complete day progress: %w", MapError(err))
	}

	current, err := s.Get(ctx, userID, day)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// Unlock implements store.ProgressStore.Unlock
func (s *PostgresProgressStore) Unlock(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error) {
	log := logger.FromContext(ctx)

	progress, err := domain.NewDayProgress(userID, day, domain.DayStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	// Insert-or-promote in one statement: a missing row is created as
	// available, a locked row is promoted, and any further-along row is
	// left untouched (the conflict update's WHERE filters it out).
	query := `
		INSERT INTO day_progress (id, user_id, day, status, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, NULL, $5, $5)
		ON CONFLICT (user_id, day) DO UPDATE
		SET status = $4, updated_at = $5
		WHERE day_progress.status = $6
		RETURNING ` + dayProgressColumns

	row := s.db.QueryRowContext(ctx, query,
		progress.ID,
		userID,
		day,
		domain.DayStatusAvailable,
		progress.CreatedAt,
		domain.DayStatusLocked,
	)

	unlocked, err := scanDayProgress(row)
	if err == nil {
		return unlocked, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to unlock day",
			"user_id", userID,
			"day", day,
			"error", err)
		return nil, fmt.Errorf("failed to unlock day: %w", MapError(err))
	}

	// No row returned: the day was already past locked. Report its state.
	return s.Get(ctx, userID, day)
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return NewPostgresProgressStore(tx)
}

// scanDayProgress scans a single day progress row.
func scanDayProgress(row *sql.Row) (*domain.DayProgress, error) {
	var p domain.DayProgress
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Day,
		&p.Status,
		&p.StartedAt,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
