package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sprintlab/sprint-api/internal/store"
)

// preferenceKeyPrefix namespaces per-user preference hashes in Redis.
const preferenceKeyPrefix = "preferences:"

// RedisPreferenceStore stores small per-user display preferences (theme,
// dialogue speed, reduced motion) as a Redis hash. Preferences are
// convenience state: losing them is harmless, so no relational table backs
// them.
type RedisPreferenceStore struct {
	client *redis.Client
}

// Ensure RedisPreferenceStore implements the store.PreferenceStore interface
var _ store.PreferenceStore = (*RedisPreferenceStore)(nil)

// NewRedisPreferenceStore creates a new Redis-backed preference store.
func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{
		client: client,
	}
}

// Get returns the value of a single preference key.
// Returns store.ErrNotFound if the user has no value for the key.
func (s *RedisPreferenceStore) Get(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	val, err := s.client.HGet(ctx, preferenceKey(userID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: preference %q", store.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to read preference: %w", err)
	}
	return val, nil
}

// GetAll returns all of the user's preferences. Returns an empty map when
// the user has none.
func (s *RedisPreferenceStore) GetAll(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	prefs, err := s.client.HGetAll(ctx, preferenceKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return prefs, nil
}

// Set writes a single preference key. Writing an existing key replaces its
// value.
func (s *RedisPreferenceStore) Set(ctx context.Context, userID uuid.UUID, key, value string) error {
	if err := s.client.HSet(ctx, preferenceKey(userID), key, value).Err(); err != nil {
		return fmt.Errorf("failed to write preference: %w", err)
	}
	return nil
}

// Delete removes a single preference key. Deleting an absent key is a no-op.
func (s *RedisPreferenceStore) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.client.HDel(ctx, preferenceKey(userID), key).Err(); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}

// preferenceKey builds the hash key for one user's preferences.
func preferenceKey(userID uuid.UUID) string {
	return preferenceKeyPrefix + userID.String()
}
