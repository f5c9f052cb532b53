package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrementStartsAndRollsWindows(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	count, resetAt, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, clock.Now().Add(time.Minute), resetAt)

	clock.Advance(30 * time.Second)
	count, again, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, resetAt, again, "window does not slide")

	clock.Advance(30 * time.Second)
	count, rolled, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.True(t, rolled.After(resetAt))
}

func TestMemoryStore_Purge(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStoreWithClock(clock.Now)

	_, _, _ = store.Increment(ctx, "short", time.Second)
	_, _, _ = store.Increment(ctx, "long", time.Hour)
	require.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, _, _ = store.Increment(ctx, "k", time.Minute)
	require.NoError(t, store.Reset(ctx, "k"))
	require.NoError(t, store.Reset(ctx, "missing"))
	assert.Equal(t, 0, store.Len())
}
