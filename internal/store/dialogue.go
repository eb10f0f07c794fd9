package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
)

// DialogueCache defines the interface for cached dialogue persistence.
// Entries are keyed by (userID, day); a write for an existing key replaces
// the previous entry.
type DialogueCache interface {
	// Get retrieves the cached dialogue entry for the given day.
	// Returns ErrDialogueNotFound on a cache miss.
	Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error)

	// Save writes the entry, replacing any existing entry for the same
	// (userID, day) key.
	Save(ctx context.Context, entry *domain.DialogueEntry) error

	// Invalidate removes the entry for the given day. Invalidating a key
	// with no entry is a no-op.
	Invalidate(ctx context.Context, userID uuid.UUID, day int) error
}
