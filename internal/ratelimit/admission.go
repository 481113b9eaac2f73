package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of running one request through the admission
// pipeline.
type Decision struct {
	// Allowed is false when a hard limit rejected the request.
	Allowed bool
	// Exceeded describes the rejecting limit when Allowed is false.
	Exceeded *LimitExceeded
	// Delay is the slowdown to apply before responding. Always zero for
	// rejected requests; rejections must stay cheap.
	Delay time.Duration
}

// Admission composes the hard limiters and the slowdown into a fixed
// pipeline: hard limits are evaluated first, the slowdown only for requests
// they admit.
type Admission struct {
	limiter  *PolicyLimiter
	slowdown *Slowdown
}

// NewAdmission creates an admission pipeline. slowdown may be nil, in which
// case admitted requests are never delayed.
func NewAdmission(limiter *PolicyLimiter, slowdown *Slowdown) *Admission {
	return &Admission{
		limiter:  limiter,
		slowdown: slowdown,
	}
}

// NewAdmissionFromPolicy wires a complete pipeline from a policy and a
// counter store.
func NewAdmissionFromPolicy(store Store, policy *Policy) *Admission {
	var slowdown *Slowdown
	if policy.Slowdown != nil {
		slowdown = NewSlowdown(store, *policy.Slowdown)
	}

	return NewAdmission(NewPolicyLimiter(store, policy), slowdown)
}

// Check evaluates the pipeline for one request. It records counters but does
// not sleep; the caller owns the suspension so no lock is held while waiting.
func (a *Admission) Check(ctx context.Context, clientKey string, scopes []Scope) (Decision, error) {
	allowed, exceeded, err := a.limiter.Allow(ctx, clientKey, scopes)
	if err != nil {
		return Decision{}, err
	}

	if !allowed {
		return Decision{Allowed: false, Exceeded: exceeded}, nil
	}

	if a.slowdown == nil {
		return Decision{Allowed: true}, nil
	}

	delay, err := a.slowdown.Delay(ctx, clientKey)
	if err != nil {
		return Decision{}, err
	}

	return Decision{Allowed: true, Delay: delay}, nil
}
