package sessionstate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30 * time.Minute)
	store.now = func() time.Time { return start }

	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	st := New("s1", start)
	st.Append("oi")
	require.NoError(t, store.Set(ctx, st))

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.InteractionCount)
	assert.Equal(t, PhaseActive, got.Phase)

	// returned state is a copy
	got.Append("mutated")
	again, _, _ := store.Get(ctx, "s1")
	assert.Len(t, again.Messages, 1)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, _ = store.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestMemoryStore_ExpiryIsAbsolute(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	now := start
	store := NewMemoryStore(30 * time.Minute)
	store.WithClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, New("s1", start)))

	// touching the session does not extend its life
	now = start.Add(29 * time.Minute)
	st, ok, _ := store.Get(ctx, "s1")
	require.True(t, ok)
	st.Append("still here")
	require.NoError(t, store.Set(ctx, st))

	now = start.Add(30 * time.Minute)
	_, ok, _ = store.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10 * time.Minute)

	require.NoError(t, store.Set(ctx, New("old", start)))
	require.NoError(t, store.Set(ctx, New("new", start.Add(8*time.Minute))))

	removed, err := store.Sweep(ctx, start.Add(12*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentDistinctKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, New(fmt.Sprintf("s%d", i), time.Now()))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestStartSweeper_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(time.Millisecond)
	require.NoError(t, store.Set(ctx, New("s1", time.Now().Add(-time.Hour))))

	StartSweeper(ctx, store, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestMemoryStore_Flush(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Set(ctx, New("a", time.Now())))
	require.NoError(t, store.Set(ctx, New("b", time.Now())))

	var f Flusher = store
	n, err := f.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, store.Len())
}
