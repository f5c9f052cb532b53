// Package ratelimit implements fixed-window request counting per client key.
//
// Counters live behind domain.RateLimitStore so a shared store (Redis) can
// replace the process-local one without changing policy semantics. Either way
// the limiter is a soft deterrent, not a security boundary.
package ratelimit

import (
	"context"
	"time"

	"github.com/you/shopauth/domain"
)

// Policy is a named fixed-window ceiling
type Policy struct {
	Name   string
	Window time.Duration
	Max    int
}

// Decision is the outcome of counting one request
type Decision struct {
	Allowed    bool
	Limit      int
	Count      int64
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter applies one Policy against a store
type Limiter struct {
	store  domain.RateLimitStore
	policy Policy
	now    func() time.Time
}

// New creates a limiter for policy backed by store
func New(store domain.RateLimitStore, policy Policy) *Limiter {
	return &Limiter{store: store, policy: policy, now: time.Now}
}

// WithClock overrides the time source
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Policy returns the limiter's policy
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow counts a request for key and reports whether it fits in the window
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.store.Increment(ctx, l.storeKey(key), l.policy.Window)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Allowed: count <= int64(l.policy.Max),
		Limit:   l.policy.Max,
		Count:   count,
		ResetAt: resetAt,
	}
	if remaining := int64(l.policy.Max) - count; remaining > 0 {
		d.Remaining = int(remaining)
	}
	if !d.Allowed {
		d.RetryAfter = resetAt.Sub(l.now())
		if d.RetryAfter < 0 {
			d.RetryAfter = 0
		}
	}
	return d, nil
}

// Reset forgets the counter for key
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, l.storeKey(key))
}

func (l *Limiter) storeKey(key string) string {
	return "ratelimit:" + l.policy.Name + ":" + key
}
