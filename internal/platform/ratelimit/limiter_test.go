package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryStoreSlidingWindow(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rule := Rule{Name: "auth", Limit: 2, Window: 15 * time.Minute}
	start := time.Date(2025, 12, 26, 2, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, _ := store.Hit(ctx, "auth:1.2.3.4", rule, start)
	if !first.Allowed || first.Remaining != 1 {
		t.Fatalf("unexpected first decision: %+v", first)
	}
	second, _ := store.Hit(ctx, "auth:1.2.3.4", rule, start.Add(time.Minute))
	if !second.Allowed || second.Remaining != 0 {
		t.Fatalf("unexpected second decision: %+v", second)
	}

	third, _ := store.Hit(ctx, "auth:1.2.3.4", rule, start.Add(2*time.Minute))
	if third.Allowed {
		t.Fatalf("expected third hit to be rejected: %+v", third)
	}
	if want := start.Add(15 * time.Minute); !third.ResetAt.Equal(want) {
		t.Fatalf("unexpected reset: got=%s want=%s", third.ResetAt, want)
	}
	if third.RetryAfter != 13*time.Minute {
		t.Fatalf("unexpected retry after: got=%s want=13m", third.RetryAfter)
	}

	other, _ := store.Hit(ctx, "auth:5.6.7.8", rule, start.Add(2*time.Minute))
	if !other.Allowed {
		t.Fatalf("keys must be isolated: %+v", other)
	}

	afterWindow, _ := store.Hit(ctx, "auth:1.2.3.4", rule, start.Add(15*time.Minute+time.Second))
	if !afterWindow.Allowed {
		t.Fatalf("expected oldest hit to slide out of window: %+v", afterWindow)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rule := Rule{Name: "general", Limit: 10, Window: time.Minute}
	now := time.Date(2025, 12, 26, 2, 0, 0, 0, time.UTC)
	_, _ = store.Hit(context.Background(), "fresh", rule, now)
	_, _ = store.Hit(context.Background(), "old", rule, now.Add(-time.Hour))

	if removed := store.Sweep(now, 10*time.Minute); removed != 1 {
		t.Fatalf("unexpected removed count: got=%d want=1", removed)
	}
}

func TestMemoryStoreEvictsIdleKeysOnHit(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rule := Rule{Name: "general", Limit: 100, Window: time.Millisecond}
	now := time.Date(2025, 12, 26, 2, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		_, _ = store.Hit(ctx, fmt.Sprintf("203.0.113.9:/v1/public/matches/m-%05d", i), rule, now)
	}
	if got := store.Len(); got != 10000 {
		t.Fatalf("unexpected key count before expiry: got=%d want=10000", got)
	}

	_, _ = store.Hit(ctx, "203.0.113.9:/v1/public/sports", rule, now.Add(2*time.Millisecond))
	if got := store.Len(); got != 1 {
		t.Fatalf("unexpected key count after window: got=%d want=1", got)
	}
}

func TestLimiterRejectsInvalidRule(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(NewMemoryStore())
	if _, err := limiter.Allow(context.Background(), Rule{Name: "broken"}, "ip"); err == nil {
		t.Fatalf("expected validation error for empty rule")
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("upload", " 10.0.0.1 ", "/v1/banners"); got != "upload:10.0.0.1:/v1/banners" {
		t.Fatalf("unexpected key: %s", got)
	}
}
