package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// incrementScript starts the window on the first hit and repairs keys that
// somehow lost their TTL.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

type result struct {
	count   int64
	resetAt time.Time
}

// RedisStore shares counters across instances. When Redis fails repeatedly
// the breaker opens and counting continues in a process-local fallback.
type RedisStore struct {
	client   *redis.Client
	breaker  *gobreaker.CircuitBreaker
	fallback *MemoryStore
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewRedisStore wraps client with a circuit breaker and memory fallback
func NewRedisStore(client *redis.Client, log logrus.FieldLogger) *RedisStore {
	s := &RedisStore{
		client:   client,
		fallback: NewMemoryStore(),
		log:      log,
		now:      time.Now,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ratelimit-redis",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if s.log != nil {
				s.log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
					Warn("rate limit store breaker changed state")
			}
		},
	})
	return s
}

// Increment implements domain.RateLimitStore
func (s *RedisStore) Increment(ctx context.Context, key string, size time.Duration) (int64, time.Time, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.increment(ctx, key, size)
	})
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("key", key).Debug("rate limit falling back to memory store")
		}
		return s.fallback.Increment(ctx, key, size)
	}
	r := out.(result)
	return r.count, r.resetAt, nil
}

// Reset implements domain.RateLimitStore
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	_ = s.fallback.Reset(ctx, key)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit key: %w", err)
	}
	return nil
}

// State exposes the breaker state
func (s *RedisStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *RedisStore) increment(ctx context.Context, key string, size time.Duration) (result, error) {
	raw, err := incrementScript.Run(ctx, s.client, []string{key}, size.Milliseconds()).Int64Slice()
	if err != nil {
		return result{}, fmt.Errorf("failed to increment rate limit key: %w", err)
	}
	if len(raw) != 2 {
		return result{}, fmt.Errorf("unexpected rate limit script reply: %v", raw)
	}
	return result{
		count:   raw[0],
		resetAt: s.now().Add(time.Duration(raw[1]) * time.Millisecond),
	}, nil
}
