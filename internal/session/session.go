// Package session tracks, per visitor session, the job page most recently
// viewed. The intake resolver uses it as the last fallback when a submission
// carries no other job context.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed session attribute store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a session store. Entries expire after ttl.
func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return "session:current_job:" + sessionID
}

// SetCurrentJob records the job a session is currently viewing.
func (s *Store) SetCurrentJob(ctx context.Context, sessionID string, jobID int64) error {
	if err := s.client.Set(ctx, s.key(sessionID), jobID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set current job: %w", err)
	}
	return nil
}

// CurrentJob returns the session's current job id, or 0 when none is
// recorded.
func (s *Store) CurrentJob(ctx context.Context, sessionID string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current job: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt current job value %q: %w", v, err)
	}
	return id, nil
}
