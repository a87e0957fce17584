package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore keeps rate limit counters in process memory. Suitable
// for single-instance deployments and tests; use RateLimitRedisStore when
// several front ends must share one budget.
type RateLimitMemoryStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewRateLimitMemoryStore creates an empty in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		hits: make(map[string][]time.Time),
	}
}

// Record prunes hits older than the window, registers the current one, and
// returns the count left for the key.
func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	kept := s.hits[key][:0]

	for _, ts := range s.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	kept = append(kept, now)
	s.hits[key] = kept

	return int64(len(kept)), nil
}
