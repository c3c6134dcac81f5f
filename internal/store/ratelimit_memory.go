package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RateLimitMemory is an in-memory rate limit store. Timestamps per key
// are kept in insertion order, which is also chronological, so pruning is
// a binary search for the window cutoff.
type RateLimitMemory struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewRateLimitMemory creates an empty in-memory rate limit store.
func NewRateLimitMemory() *RateLimitMemory {
	return &RateLimitMemory{
		hits: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemory) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	hits := s.hits[key]
	first := sort.Search(len(hits), func(i int) bool { return hits[i].After(cutoff) })

	hits = append(hits[first:len(hits):len(hits)], now)
	s.hits[key] = hits

	return int64(len(hits)), nil
}
