package store

import (
	"context"

	"github.com/google/uuid"
)

// PreferenceStore defines the interface for per-user display preferences.
// Preferences are a flat string key-value namespace scoped to a user.
type PreferenceStore interface {
	// Get returns the value of a single preference key.
	// Returns ErrNotFound if the user has no value for the key.
	Get(ctx context.Context, userID uuid.UUID, key string) (string, error)

	// GetAll returns all of the user's preferences, empty map when none.
	GetAll(ctx context.Context, userID uuid.UUID) (map[string]string, error)

	// Set writes a single preference key, replacing any existing value.
	Set(ctx context.Context, userID uuid.UUID, key, value string) error

	// Delete removes a single preference key. Deleting an absent key is a
	// no-op.
	Delete(ctx context.Context, userID uuid.UUID, key string) error
}
