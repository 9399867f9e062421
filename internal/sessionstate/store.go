package sessionstate

import (
	"context"
	"time"
)

// DefaultTTL bounds the life of a live session measured from its start
const DefaultTTL = 30 * time.Minute

// Store is a keyed registry of live session state with absolute expiry.
// Implementations return copies; callers write changes back with Set.
type Store interface {
	// Get returns the state for id; ok is false when absent or expired
	Get(ctx context.Context, id string) (st *State, ok bool, err error)
	Set(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
	// Sweep evicts entries whose age exceeds the TTL and reports how many
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Flusher is implemented by stores that can drop every entry at once
type Flusher interface {
	Flush(ctx context.Context) (int, error)
}
