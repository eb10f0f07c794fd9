package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus represents the lifecycle state of a sprint enrollment.
type EnrollmentStatus string

// Possible enrollment status values.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusExpired   EnrollmentStatus = "expired"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Enrollment-specific validation errors.
var (
	// ErrEnrollmentIDEmpty is returned when an enrollment ID is empty or nil.
	ErrEnrollmentIDEmpty = errors.New("enrollment ID cannot be empty")

	// ErrEnrollmentUserIDEmpty is returned when an enrollment's user ID is empty or nil.
	ErrEnrollmentUserIDEmpty = errors.New("enrollment user ID cannot be empty")

	// ErrEnrollmentCohortIDEmpty is returned when an enrollment's cohort ID is empty or nil.
	ErrEnrollmentCohortIDEmpty = errors.New("enrollment cohort ID cannot be empty")
)

// Enrollment records that a user is (or was) enrolled in a cohort-based
// learning sprint. At most one enrollment per user is active at a time;
// enrollments are never deleted, only expired or cancelled, so they double
// as an audit trail.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	CohortID  uuid.UUID        `json:"cohort_id"`
	StartedAt time.Time        `json:"started_at"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewEnrollment creates an active Enrollment for the given user and cohort.
// It generates a new UUID for the enrollment ID and sets the start and
// creation/update timestamps. Returns an error if validation fails.
func NewEnrollment(userID, cohortID uuid.UUID) (*Enrollment, error) {
	now := time.Now().UTC()
	enrollment := &Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CohortID:  cohortID,
		StartedAt: now,
		Status:    EnrollmentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := enrollment.Validate(); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// Validate checks if the Enrollment has valid data.
// Returns an error if any field fails validation.
func (e *Enrollment) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEnrollmentIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrEnrollmentUserIDEmpty
	}

	if e.CohortID == uuid.Nil {
		return ErrEnrollmentCohortIDEmpty
	}

	if !isValidEnrollmentStatus(e.Status) {
		return ErrInvalidEnrollmentStatus
	}

	return nil
}

// IsActive reports whether the enrollment currently grants sprint access.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}

// Expire transitions the enrollment to expired. Calling Expire on an
// enrollment that is already expired or cancelled is a no-op; the transition
// is idempotent because the cohort-window sweep may visit the same
// enrollment more than once.
func (e *Enrollment) Expire() {
	if e.Status != EnrollmentStatusActive {
		return
	}
	e.Status = EnrollmentStatusExpired
	e.UpdatedAt = time.Now().UTC()
}

// Cancel transitions the enrollment to cancelled. No-op unless active.
func (e *Enrollment) Cancel() {
	if e.Status != EnrollmentStatusActive {
		return
	}
	e.Status = EnrollmentStatusCancelled
	e.UpdatedAt = time.Now().UTC()
}

// isValidEnrollmentStatus checks if the given status is a valid EnrollmentStatus.
func isValidEnrollmentStatus(status EnrollmentStatus) bool {
	switch status {
	case EnrollmentStatusActive, EnrollmentStatusExpired, EnrollmentStatusCancelled:
		return true
	default:
		return false
	}
}
