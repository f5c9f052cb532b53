package ratelimit

import (
	"context"
	"sync"
	"time"
)

const purgeEvery = 1024

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local counter map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	calls   int
}

// NewMemoryStore creates an empty store using the wall clock
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an empty store with a custom time source
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window), now: now}
}

// Increment implements domain.RateLimitStore
func (s *MemoryStore) Increment(_ context.Context, key string, size time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.calls++
	if s.calls%purgeEvery == 0 {
		s.purgeLocked(now)
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(size)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

// Reset implements domain.RateLimitStore
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

// Purge drops every elapsed window and returns how many were removed
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked(s.now())
}

// Len reports the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryStore) purgeLocked(now time.Time) int {
	n := 0
	for k, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, k)
			n++
		}
	}
	return n
}
