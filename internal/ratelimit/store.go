package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window together with the oldest timestamp still inside it.
	// It automatically prunes expired entries. The oldest timestamp tells
	// callers when a slot frees up again.
	Record(ctx context.Context, key string, window time.Duration) (count int64, oldest time.Time, err error)
}
