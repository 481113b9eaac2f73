package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// LimitExceeded contains information about which limit was exceeded.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
	// RetryAfter estimates how long until the oldest in-window request
	// falls out of the window and a slot frees up.
	RetryAfter time.Duration
}

// PolicyLimiter enforces the hard per-scope limits of a policy.
type PolicyLimiter struct {
	store  Store
	policy *Policy
	now    func() time.Time
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// WithClock replaces the limiter's time source. Intended for tests.
func (l *PolicyLimiter) WithClock(now func() time.Time) *PolicyLimiter {
	if now != nil {
		l.now = now
	}

	return l
}

// Allow records the request against every limit for the given scopes, in
// order, and reports whether it passes them all. The first exceeded limit
// wins; limits after it are not recorded. The LimitExceeded return value
// provides details about which limit was hit (nil if allowed).
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		limits, ok := l.policy.Limits[scope]
		if !ok {
			continue
		}

		for _, limit := range limits {
			// Key combines client + scope + window for independent tracking
			key := l.buildKey(clientKey, scope, limit)

			count, oldest, err := l.store.Record(ctx, key, limit.Window)
			if err != nil {
				return false, nil, err
			}

			if count > limit.Max {
				return false, &LimitExceeded{
					Scope:      scope,
					Config:     limit,
					Count:      count,
					RetryAfter: retryAfter(l.now(), oldest, limit.Window),
				}, nil
			}
		}
	}

	return true, nil, nil
}

// buildKey creates a unique rate limit key for the client, scope, and window combination.
func (l *PolicyLimiter) buildKey(clientKey string, scope Scope, limit LimitConfig) string {
	return fmt.Sprintf("%s:%s:%d", clientKey, scope, limit.Window.Milliseconds())
}

func retryAfter(now, oldest time.Time, window time.Duration) time.Duration {
	d := oldest.Add(window).Sub(now)
	if d < 0 {
		return 0
	}

	return d
}
