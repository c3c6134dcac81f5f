package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a request identified by a key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter admits at most max requests per key within a
// trailing window. The store does the counting and pruning; the limiter
// only applies the threshold.
type SlidingWindowLimiter struct {
	store  Store
	max    int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a limiter over a pruning store.
func NewSlidingWindowLimiter(store Store, max int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		max:    max,
		window: window,
	}
}

// Allow records the request and reports whether the key is still within
// its budgeted window. The request is counted even when denied.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.max, nil
}
