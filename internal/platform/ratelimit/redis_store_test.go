package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store, err := NewRedisStoreFromURL(context.Background(), fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreSlidingWindow(t *testing.T) {
	store := newTestRedisStore(t)
	rule := Rule{Name: "upload", Limit: 2, Window: time.Hour}
	start := time.Date(2025, 12, 26, 2, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := store.Hit(ctx, "upload:1.2.3.4", rule, start.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("hit %d should be allowed: %+v", i, decision)
		}
	}

	rejected, err := store.Hit(ctx, "upload:1.2.3.4", rule, start.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("third hit: %v", err)
	}
	if rejected.Allowed || rejected.Remaining != 0 {
		t.Fatalf("expected rejection: %+v", rejected)
	}
	if want := start.Add(time.Hour); !rejected.ResetAt.Equal(want) {
		t.Fatalf("unexpected reset: got=%s want=%s", rejected.ResetAt, want)
	}

	// The rejected hit was discarded, so the first slot frees up exactly one window later.
	later, err := store.Hit(ctx, "upload:1.2.3.4", rule, start.Add(time.Hour+time.Second))
	if err != nil {
		t.Fatalf("later hit: %v", err)
	}
	if !later.Allowed || later.Remaining != 0 {
		t.Fatalf("unexpected later decision: %+v", later)
	}
}
