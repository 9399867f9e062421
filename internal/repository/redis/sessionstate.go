package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/support-chat/internal/sessionstate"
	"github.com/redis/go-redis/v9"
)

const sessionStatePrefix = "session_state:"

// SessionStateStore keeps live session state in Redis so several server
// processes can share it. Keys expire natively at StartTime+TTL.
type SessionStateStore struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStateStore creates a Redis state store. A non-positive ttl uses
// sessionstate.DefaultTTL.
func NewSessionStateStore(client *Client, ttl time.Duration) *SessionStateStore {
	if ttl <= 0 {
		ttl = sessionstate.DefaultTTL
	}
	return &SessionStateStore{client: client, ttl: ttl, now: time.Now}
}

func (s *SessionStateStore) Get(ctx context.Context, id string) (*sessionstate.State, bool, error) {
	data, err := s.client.rdb.Get(ctx, sessionStatePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session state: %w", err)
	}

	var st sessionstate.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	// EXAT has second precision
	if !s.now().Before(st.ExpiresAt(s.ttl)) {
		return nil, false, nil
	}
	return &st, true, nil
}

func (s *SessionStateStore) Set(ctx context.Context, st *sessionstate.State) error {
	key := sessionStatePrefix + st.ID
	expiresAt := st.ExpiresAt(s.ttl)
	if !s.now().Before(expiresAt) {
		return s.client.rdb.Del(ctx, key).Err()
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := s.client.rdb.SetArgs(ctx, key, data, redis.SetArgs{ExpireAt: expiresAt}).Err(); err != nil {
		return fmt.Errorf("failed to set session state: %w", err)
	}
	return nil
}

func (s *SessionStateStore) Delete(ctx context.Context, id string) error {
	if err := s.client.rdb.Del(ctx, sessionStatePrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// Sweep is a no-op; Redis expires keys itself
func (s *SessionStateStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// Flush removes every session state key
func (s *SessionStateStore) Flush(ctx context.Context) (int, error) {
	pattern := sessionStatePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := s.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return int(deleted), fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := s.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return int(deleted), fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return int(deleted), nil
}
