package ratelimit

import "time"

// LimitConfig caps qualifying requests inside a sliding window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// SlowdownConfig shapes the progressive delay applied past a soft threshold.
// Unlike a hard limit it never rejects; it only holds responses back.
type SlowdownConfig struct {
	// Window is the sliding window the slowdown counter covers.
	Window time.Duration
	// Threshold is the in-window request count up to which no delay applies.
	Threshold int64
	// UnitDelay is added once per request beyond the threshold.
	UnitDelay time.Duration
	// MaxDelay caps the total delay for a single request.
	MaxDelay time.Duration
}

// Policy is a complete admission policy: hard per-scope limits plus an
// optional progressive slowdown.
type Policy struct {
	Limits   map[Scope][]LimitConfig
	Slowdown *SlowdownConfig
}

// PolicyBuilder assembles a Policy.
type PolicyBuilder struct {
	policy Policy
}

// NewPolicyBuilder creates an empty policy builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{
		policy: Policy{Limits: make(map[Scope][]LimitConfig)},
	}
}

// AddLimit adds a hard limit for the scope. A scope may carry several limits
// with different windows; all of them must hold for a request to pass.
func (b *PolicyBuilder) AddLimit(scope Scope, max int64, window time.Duration) *PolicyBuilder {
	b.policy.Limits[scope] = append(b.policy.Limits[scope], LimitConfig{
		Window: window,
		Max:    max,
	})

	return b
}

// WithSlowdown attaches a progressive slowdown to the policy.
func (b *PolicyBuilder) WithSlowdown(cfg SlowdownConfig) *PolicyBuilder {
	b.policy.Slowdown = &cfg

	return b
}

// Build returns the assembled policy.
func (b *PolicyBuilder) Build() *Policy {
	return &b.policy
}
