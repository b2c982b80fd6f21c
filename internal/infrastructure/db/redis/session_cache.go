package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 15 * time.Minute

// SessionCache maps session tokens to user ids, backed by Redis.
// Key format: session:<token>
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
// Entries expire after ttl, or defaultSessionTTL when ttl is not positive.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{client: client, ttl: ttl}
}

// Get returns the cached user id for token, or "" on a miss.
func (c *SessionCache) Get(ctx context.Context, token string) (string, error) {
	userID, err := c.client.Get(ctx, c.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	return userID, nil
}

func (c *SessionCache) Set(ctx context.Context, token, userID string) error {
	return c.client.Set(ctx, c.key(token), userID, c.ttl).Err()
}

func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}

func (c *SessionCache) key(token string) string {
	return "session:" + token
}
