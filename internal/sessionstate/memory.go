package sessionstate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps state in process memory. It is only correct for a
// single-instance deployment; use the Redis store when running several.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the clock Get uses to decide expiry
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok || !s.now().Before(st.ExpiresAt(s.ttl)) {
		return nil, false, nil
	}
	return st.Clone(), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[st.ID] = st.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, st := range s.sessions {
		if !now.Before(st.ExpiresAt(s.ttl)) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) Flush(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	s.sessions = make(map[string]*State)
	return n, nil
}
