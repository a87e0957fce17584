package ratelimit

import "time"

// LimitConfig is a single limit: at most Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them. A request may fall
// under several scopes; every applicable limit must pass.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// NewPolicy creates an empty policy.
func NewPolicy() *Policy {
	return &Policy{Limits: make(map[Scope][]LimitConfig)}
}

// Set replaces the limits for a scope and returns the policy for chaining.
func (p *Policy) Set(scope Scope, limits ...LimitConfig) *Policy {
	p.Limits[scope] = limits

	return p
}

// DefaultPolicy returns the service-wide policy: 5 requests per 15 minutes
// per client, applied globally.
func DefaultPolicy() *Policy {
	return NewPolicy().Set(ScopeGlobal, LimitConfig{Window: 15 * time.Minute, Max: 5})
}
