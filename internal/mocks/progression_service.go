package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/service/progression"
)

// MockProgressionService implements progression.ProgressionService for testing
type MockProgressionService struct {
	// Custom behavior functions
	EnrollFn           func(ctx context.Context, userID, cohortID uuid.UUID) (*domain.Enrollment, bool, error)
	StartDayFn         func(ctx context.Context, userID uuid.UUID, day int) (*domain.DayProgress, error)
	CompleteDayFn      func(ctx context.Context, userID uuid.UUID, day int) (*progression.CompletionResult, error)
	GetCurrentDayFn    func(ctx context.Context, userID uuid.UUID) (int, error)
	GetProgressFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.DayProgress, error)
	ExpireEnrollmentFn func(ctx context.Context, userID uuid.UUID) error

	// Default response values used when no Fn is provided
	Enrollment *domain.Enrollment
	Created    bool
	Progress   *domain.DayProgress
	Completion *progression.CompletionResult
	CurrentDay int
	History    []*domain.DayProgress
	Err        error

	// Call tracking for verification
	mu               sync.Mutex
	EnrollCalls      int
	StartDayCalls    int
	CompleteDayCalls int
	CurrentDayCalls  int
	ProgressCalls    int
	ExpireCalls      int
	LastUserID       uuid.UUID
	LastDay          int
}

// Ensure MockProgressionService implements the interface
var _ progression.ProgressionService = (*MockProgressionService)(nil)

func (m *MockProgressionService) Enroll(
	ctx context.Context,
	userID, cohortID uuid.UUID,
) (*domain.Enrollment, bool, error) {
	m.mu.Lock()
	m.EnrollCalls++
	m.LastUserID = userID
	m.mu.Unlock()

	if m.EnrollFn != nil {
		return m.EnrollFn(ctx, userID, cohortID)
	}
	return m.Enrollment, m.Created, m.Err
}

func (m *MockProgressionService) StartDay(
	ctx context.Context,
	userID uuid.UUID,
	day int,
) (*domain.DayProgress, error) {
	m.mu.Lock()
	m.StartDayCalls++
	m.LastUserID = userID
	m.LastDay = day
	m.mu.Unlock()

	if m.StartDayFn != nil {
		return m.StartDayFn(ctx, userID, day)
	}
	return m.Progress, m.Err
}

func (m *MockProgressionService) CompleteDay(
	ctx context.Context,
	userID uuid.UUID,
	day int,
) (*progression.CompletionResult, error) {
	m.mu.Lock()
	m.CompleteDayCalls++
	m.LastUserID = userID
	m.LastDay = day
	m.mu.Unlock()

	if m.CompleteDayFn != nil {
		return m.CompleteDayFn(ctx, userID, day)
	}
	return m.Completion, m.Err
}

func (m *MockProgressionService) GetCurrentDay(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	m.CurrentDayCalls++
	m.LastUserID = userID
	m.mu.Unlock()

	if m.GetCurrentDayFn != nil {
		return m.GetCurrentDayFn(ctx, userID)
	}
	return m.CurrentDay, m.Err
}

func (m *MockProgressionService) GetProgress(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DayProgress, error) {
	m.mu.Lock()
	m.ProgressCalls++
	m.LastUserID = userID
	m.mu.Unlock()

	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, userID)
	}
	return m.History, m.Err
}

func (m *MockProgressionService) ExpireEnrollment(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	m.ExpireCalls++
	m.LastUserID = userID
	m.mu.Unlock()

	if m.ExpireEnrollmentFn != nil {
		return m.ExpireEnrollmentFn(ctx, userID)
	}
	return m.Err
}
