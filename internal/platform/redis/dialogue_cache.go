package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sprintlab/sprint-api/internal/domain"
	"github.com/sprintlab/sprint-api/internal/platform/logger"
	"github.com/sprintlab/sprint-api/internal/store"
)

// dialogueKeyPrefix namespaces dialogue entries in Redis.
const dialogueKeyPrefix = "dialogue:"

// RedisDialogueCache implements the store.DialogueCache interface using
// Redis as the storage backend. Entries are stored as JSON under
// dialogue:<user_id>:<day> with a configurable TTL; Redis expiry bounds
// staleness, explicit invalidation handles correctness.
type RedisDialogueCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDialogueCache creates a new Redis-backed dialogue cache.
// A non-positive ttl stores entries without expiry.
func NewRedisDialogueCache(client *redis.Client, ttl time.Duration) *RedisDialogueCache {
	return &RedisDialogueCache{
		client: client,
		ttl:    ttl,
	}
}

// Ensure RedisDialogueCache implements store.DialogueCache interface
var _ store.DialogueCache = (*RedisDialogueCache)(nil)

// Get implements store.DialogueCache.Get
func (c *RedisDialogueCache) Get(ctx context.Context, userID uuid.UUID, day int) (*domain.DialogueEntry, error) {
	log := logger.FromContext(ctx)

	data, err := c.client.Get(ctx, dialogueKey(userID, day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrDialogueNotFound
		}
		log.Error("failed to read dialogue entry from cache",
			"user_id", userID,
			"day", day,
			"error", err)
		return nil, fmt.Errorf("failed to read dialogue entry: %w", err)
	}

	var entry domain.DialogueEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is as good as a miss; drop it so the next write
		// replaces it cleanly.
		log.Warn("discarding corrupt dialogue cache entry",
			"user_id", userID,
			"day", day,
			"error", err)
		_ = c.client.Del(ctx, dialogueKey(userID, day)).Err()
		return nil, store.ErrDialogueNotFound
	}

	return &entry, nil
}

// Save implements store.DialogueCache.Save
func (c *RedisDialogueCache) Save(ctx context.Context, entry *domain.DialogueEntry) error {
	log := logger.FromContext(ctx)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal dialogue entry: %w", err)
	}

	if err := c.client.Set(ctx, dialogueKey(entry.UserID, entry.Day), data, c.expiry()).Err(); err != nil {
		log.Error("failed to save dialogue entry to cache",
			"user_id", entry.UserID,
			"day", entry.Day,
			"error", err)
		return fmt.Errorf("failed to save dialogue entry: %w", err)
	}

	return nil
}

// Invalidate implements store.DialogueCache.Invalidate
func (c *RedisDialogueCache) Invalidate(ctx context.Context, userID uuid.UUID, day int) error {
	log := logger.FromContext(ctx)

	if err := c.client.Del(ctx, dialogueKey(userID, day)).Err(); err != nil {
		log.Error("failed to invalidate dialogue entry",
			"user_id", userID,
			"day", day,
			"error", err)
		return fmt.Errorf("failed to invalidate dialogue entry: %w", err)
	}

	return nil
}

// expiry returns the TTL to apply on writes; zero means no expiry.
func (c *RedisDialogueCache) expiry() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	return c.ttl
}

// dialogueKey builds the cache key for one (user, day) pair.
func dialogueKey(userID uuid.UUID, day int) string {
	return fmt.Sprintf("%s%s:%d", dialogueKeyPrefix, userID, day)
}
