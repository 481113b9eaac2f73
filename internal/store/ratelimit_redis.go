package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store backed by
// sorted sets, so several instances can share the same counters. Scores and
// members are the request timestamp in nanoseconds.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// WithClock replaces the store's time source. Intended for tests.
func (s *RateLimitRedisStore) WithClock(now func() time.Time) *RateLimitRedisStore {
	if now != nil {
		s.now = now
	}

	return s
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := s.now()
	rkey := s.prefix + key
	threshold := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	// One round trip: trim the window, add this request, read count and
	// oldest member, refresh the key TTL.
	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "-inf", threshold)
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	countCmd := pipe.ZCard(ctx, rkey)
	oldestCmd := pipe.ZRangeWithScores(ctx, rkey, 0, 0)
	pipe.Expire(ctx, rkey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit record %s: %w", key, err)
	}

	oldest := now
	if members := oldestCmd.Val(); len(members) > 0 {
		oldest = time.Unix(0, int64(members[0].Score))
	}

	return countCmd.Val(), oldest, nil
}
