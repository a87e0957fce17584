package ratelimit

import (
	"context"
	"time"
)

// Limiter answers whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter allows at most max requests per key within a rolling
// window. It enforces a single flat limit; PolicyLimiter layers scoped
// budgets on top of the same Store.
type SlidingWindowLimiter struct {
	store  Store
	max    int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a limiter allowing max requests per window.
func NewSlidingWindowLimiter(store Store, max int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		max:    max,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.max, nil
}
