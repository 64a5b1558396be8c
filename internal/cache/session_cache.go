package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GTDGit/catalog_assistant/internal/session"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// SessionCache stores sessions in Redis as JSON with a sliding TTL.
// It implements session.Store.
type SessionCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSessionCache creates a new SessionCache.
func NewSessionCache(redis *RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{
		redis: redis,
		ttl:   ttl,
	}
}

// keyBySessionID returns the Redis key for a session.
func (c *SessionCache) keyBySessionID(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get loads a session and extends its TTL.
func (c *SessionCache) Get(ctx context.Context, id string) (*session.Session, error) {
	key := c.keyBySessionID(id)
	jsonData, err := c.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(jsonData), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if err := c.redis.Expire(ctx, key, c.ttl); err != nil {
		return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
	}
	return &s, nil
}

// Save stores the session with a fresh TTL.
func (c *SessionCache) Save(ctx context.Context, s *session.Session) error {
	s.UpdatedAt = time.Now()

	jsonData, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.redis.Set(ctx, c.keyBySessionID(s.ID), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (c *SessionCache) Delete(ctx context.Context, id string) error {
	return c.redis.Delete(ctx, c.keyBySessionID(id))
}

var _ session.Store = (*SessionCache)(nil)
