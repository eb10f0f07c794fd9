package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/service/dialogue"
)

// MockDialogueService implements dialogue.DialogueService for testing
type MockDialogueService struct {
	// Custom behavior functions
	GetDialogueFn  func(ctx context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error)
	WarmDialogueFn func(ctx context.Context, userID uuid.UUID, day int) error

	// Default response values used when no Fn is provided
	Entry *domain.DialogueEntry
	Err   error

	// Call tracking for verification
	mu               sync.Mutex
	GetDialogueCalls int
	WarmCalls        int
	LastUserID       uuid.UUID
	LastDay          int
}

// Ensure MockDialogueService implements the interface
var _ dialogue.DialogueService = (*MockDialogueService)(nil)

func (m *MockDialogueService) GetDialogue(
	ctx context.Context,
	userID uuid.UUID,
	day int,
) (*domain.DialogueEntry, error) {
	m.mu.Lock()
	m.GetDialogueCalls++
	m.LastUserID = userID
	m.LastDay = day
	m.mu.Unlock()

	if m.GetDialogueFn != nil {
		return m.GetDialogueFn(ctx, userID, day)
	}
	return m.Entry, m.Err
}

func (m *MockDialogueService) WarmDialogue(ctx context.Context, userID uuid.UUID, day int) error {
	m.mu.Lock()
	m.WarmCalls++
	m.LastUserID = userID
	m.LastDay = day
	m.mu.Unlock()

	if m.WarmDialogueFn != nil {
		return m.WarmDialogueFn(ctx, userID, day)
	}
	return m.Err
}
