package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DayStatus represents the gating state of a curriculum day for one user.
type DayStatus string

// Possible day status values, in progression order.
const (
	DayStatusLocked     DayStatus = "locked"
	DayStatusAvailable  DayStatus = "available"
	DayStatusInProgress DayStatus = "in_progress"
	DayStatusCompleted  DayStatus = "completed"
)

// DayProgress-specific validation errors.
var (
	// ErrDayProgressIDEmpty is returned when a day progress ID is empty or nil.
	ErrDayProgressIDEmpty = errors.New("day progress ID cannot be empty")

	// ErrDayProgressUserIDEmpty is returned when a day progress user ID is empty or nil.
	ErrDayProgressUserIDEmpty = errors.New("day progress user ID cannot be empty")

	// ErrDayAlreadyCompleted is returned when completing a day that has
	// already reached its terminal state. Callers treat this as an
	// idempotent no-op, not a failure.
	ErrDayAlreadyCompleted = errors.New("day already completed")

	// ErrDayNotStartable is returned when starting a day that is locked.
	ErrDayNotStartable = errors.New("day cannot be started")

	// ErrDayNotCompletable is returned when completing a day that is locked.
	ErrDayNotCompletable = errors.New("day cannot be completed")
)

// DayProgress is the per-(user, day) gating record. Rows are created lazily
// the first time a day becomes reachable; status only ever advances, with
// completed as the terminal state.
type DayProgress struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Day         int        `json:"day"`
	Status      DayStatus  `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDayProgress creates a DayProgress record for the given user and day in
// the given initial status. Returns an error if validation fails.
func NewDayProgress(userID uuid.UUID, day int, status DayStatus) (*DayProgress, error) {
	now := time.Now().UTC()
	progress := &DayProgress{
		ID:        uuid.New(),
		UserID:    userID,
		Day:       day,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the DayProgress has valid data.
// Returns an error if any field fails validation.
func (p *DayProgress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrDayProgressIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrDayProgressUserIDEmpty
	}

	if p.Day < 0 {
		return ErrNegativeDay
	}

	if !isValidDayStatus(p.Status) {
		return ErrInvalidDayStatus
	}

	return nil
}

// IsAccessible reports whether the user may interact with this day.
func (p *DayProgress) IsAccessible() bool {
	return p.Status != DayStatusLocked
}

// IsCompleted reports whether this day has reached its terminal state.
func (p *DayProgress) IsCompleted() bool {
	return p.Status == DayStatusCompleted
}

// Unlock promotes a locked day to available. Any other status is left
// untouched; progress never regresses.
func (p *DayProgress) Unlock() {
	if p.Status != DayStatusLocked {
		return
	}
	p.Status = DayStatusAvailable
	p.UpdatedAt = time.Now().UTC()
}

// Start transitions the day from available to in_progress, recording
// StartedAt. Starting an in_progress or completed day is a no-op so the
// lesson page can be reopened freely. Starting a locked day fails.
func (p *DayProgress) Start(now time.Time) error {
	switch p.Status {
	case DayStatusAvailable:
		p.Status = DayStatusInProgress
		started := now.UTC()
		p.StartedAt = &started
		p.UpdatedAt = started
		return nil
	case DayStatusInProgress, DayStatusCompleted:
		return nil
	default:
		return ErrDayNotStartable
	}
}

// Complete transitions the day to completed, recording CompletedAt.
// Direct available -> completed is allowed for non-interactive days.
// Completing an already completed day returns ErrDayAlreadyCompleted;
// completing a locked day returns ErrDayNotCompletable.
func (p *DayProgress) Complete(now time.Time) error {
	switch p.Status {
	case DayStatusAvailable, DayStatusInProgress:
		p.Status = DayStatusCompleted
		completed := now.UTC()
		p.CompletedAt = &completed
		p.UpdatedAt = completed
		return nil
	case DayStatusCompleted:
		return ErrDayAlreadyCompleted
	default:
		return ErrDayNotCompletable
	}
}

// isValidDayStatus checks if the given status is a valid DayStatus.
func isValidDayStatus(status DayStatus) bool {
	switch status {
	case DayStatusLocked, DayStatusAvailable, DayStatusInProgress, DayStatusCompleted:
		return true
	default:
		return false
	}
}
