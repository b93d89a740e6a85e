package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps hit timestamps per key in process memory. Keys idle for
// longer than the widest window seen are dropped once per such window, so
// one-off keys do not accumulate.
type MemoryStore struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	maxWindow time.Duration
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[string][]time.Time)}
}

func (s *MemoryStore) Hit(_ context.Context, key string, rule Rule, now time.Time) (Decision, error) {
	windowStart := now.Add(-rule.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.Window > s.maxWindow {
		s.maxWindow = rule.Window
	}
	if s.lastSweep.IsZero() {
		s.lastSweep = now
	} else if now.Sub(s.lastSweep) >= s.maxWindow {
		s.sweepLocked(now, s.maxWindow)
		s.lastSweep = now
	}

	kept := prune(s.hits[key], windowStart)
	if len(kept) >= rule.Limit {
		s.hits[key] = kept
		return decide(rule, len(kept)+1, kept[0], now), nil
	}

	kept = append(kept, now)
	s.hits[key] = kept
	return decide(rule, len(kept), kept[0], now), nil
}

// Sweep drops keys whose newest hit is older than maxAge.
func (s *MemoryStore) Sweep(now time.Time, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(now, maxAge)
}

// Len is the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

func (s *MemoryStore) sweepLocked(now time.Time, maxAge time.Duration) int {
	cutoff := now.Add(-maxAge)
	removed := 0
	for key, hits := range s.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(s.hits, key)
			removed++
		}
	}
	return removed
}

func prune(hits []time.Time, windowStart time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(windowStart) {
		idx++
	}
	if idx == 0 {
		return hits
	}
	return append(hits[:0], hits[idx:]...)
}
