package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitRedis is a Redis-backed implementation of ratelimit.Store using
// a sorted set per key: expired entries are pruned by score, then the
// current request is added and the window counted, all in one pipeline.
type RateLimitRedis struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedis creates a Redis-backed rate limit store.
func NewRateLimitRedis(client *redis.Client) *RateLimitRedis {
	return &RateLimitRedis{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedis) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := s.prefix + key
	now := time.Now()
	cutoff := now.Add(-window).UnixNano()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}
