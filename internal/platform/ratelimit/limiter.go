// Package ratelimit implements sliding-window request limiting over a pluggable store.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Rule caps Limit hits per Window for a single key.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

func (r Rule) Validate() error {
	if r.Limit <= 0 {
		return fmt.Errorf("rate limit rule %q: limit must be > 0", r.Name)
	}
	if r.Window <= 0 {
		return fmt.Errorf("rate limit rule %q: window must be > 0", r.Name)
	}
	return nil
}

// Decision is the outcome of a single hit.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Store records hits and reports the window state. Implementations must be safe
// for concurrent use.
type Store interface {
	Hit(ctx context.Context, key string, rule Rule, now time.Time) (Decision, error)
}

type Limiter struct {
	store Store
	now   func() time.Time
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

func (l *Limiter) Allow(ctx context.Context, rule Rule, parts ...string) (Decision, error) {
	if err := rule.Validate(); err != nil {
		return Decision{}, err
	}
	return l.store.Hit(ctx, Key(rule.Name, parts...), rule, l.now())
}

// Key joins the rule name and caller-identifying parts, e.g. "auth:10.0.0.1:/v1/auth/login".
func Key(rule string, parts ...string) string {
	var b strings.Builder
	b.WriteString(rule)
	for _, part := range parts {
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(part))
	}
	return b.String()
}

func decide(rule Rule, count int, oldest, now time.Time) Decision {
	resetAt := oldest.Add(rule.Window)
	if oldest.IsZero() {
		resetAt = now.Add(rule.Window)
	}
	out := Decision{
		Allowed:   count <= rule.Limit,
		Limit:     rule.Limit,
		Remaining: max(rule.Limit-count, 0),
		ResetAt:   resetAt,
	}
	if !out.Allowed {
		out.RetryAfter = max(resetAt.Sub(now), time.Second)
	}
	return out
}
