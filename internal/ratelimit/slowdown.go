package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// slowdownKeyPrefix namespaces slowdown counters away from the hard limit
// counters, keeping the two policies independent even when their windows
// coincide.
const slowdownKeyPrefix = "slowdown"

// Slowdown computes the progressive response delay for a client. Past the
// threshold, each additional request in the window adds one unit of delay,
// capped at the configured maximum. It never rejects.
type Slowdown struct {
	store Store
	cfg   SlowdownConfig
}

// NewSlowdown creates a new progressive slowdown from its config.
func NewSlowdown(store Store, cfg SlowdownConfig) *Slowdown {
	return &Slowdown{
		store: store,
		cfg:   cfg,
	}
}

// Delay records the request and returns how long the response should be held.
// The request that takes the count to threshold+k waits min(k*unit, max);
// requests at or under the threshold pass immediately.
func (s *Slowdown) Delay(ctx context.Context, clientKey string) (time.Duration, error) {
	key := fmt.Sprintf("%s:%s:%d", slowdownKeyPrefix, clientKey, s.cfg.Window.Milliseconds())

	count, _, err := s.store.Record(ctx, key, s.cfg.Window)
	if err != nil {
		return 0, err
	}

	over := count - s.cfg.Threshold
	if over <= 0 {
		return 0, nil
	}

	delay := time.Duration(over) * s.cfg.UnitDelay
	if delay > s.cfg.MaxDelay {
		delay = s.cfg.MaxDelay
	}

	return delay, nil
}
