package ratelimit

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRedisStore_IncrementSetsWindowTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, quietLogger())

	count, resetAt, err := store.Increment(ctx, "ratelimit:auth:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), resetAt, 2*time.Second)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:auth:ip"))

	count, _, err = store.Increment(ctx, "ratelimit:auth:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisStore_WindowExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, quietLogger())

	for i := 0; i < 3; i++ {
		_, _, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	mr.FastForward(time.Minute)

	count, _, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStore_RepairsMissingTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, quietLogger())

	require.NoError(t, mr.Set("k", "4"))

	count, _, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestRedisStore_Reset(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, quietLogger())

	_, _, _ = store.Increment(ctx, "k", time.Minute)
	require.NoError(t, store.Reset(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_FallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, quietLogger())
	mr.Close()

	for i := 1; i <= 4; i++ {
		count, _, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err, "fallback must absorb the outage")
		assert.Equal(t, int64(i), count)
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())
}

func TestRedisStore_WithLimiter(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	limiter := New(NewRedisStore(client, quietLogger()), Policy{Name: "auth", Window: time.Minute, Max: 5})

	for i := 0; i < 5; i++ {
		d, err := limiter.Allow(ctx, "198.51.100.2")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := limiter.Allow(ctx, "198.51.100.2")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)
}
