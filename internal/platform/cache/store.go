// Package cache is a small in-process TTL cache with load deduplication.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store holds values of one type. A non-positive ttl keeps entries until
// they are invalidated. When maxEntries is reached, expired entries are
// dropped first and then an arbitrary one.
type Store[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	loads      resilience.Group[V]
	now        func() time.Time
}

func NewStore[V any](ttl time.Duration, maxEntries int) *Store[V] {
	return &Store[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	s.SetUntil(key, value, time.Time{})
}

// SetUntil stores value until the store ttl or deadline, whichever is first.
// A zero deadline means the store ttl alone applies.
func (s *Store[V]) SetUntil(key string, value V, deadline time.Time) {
	now := s.now()
	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}
	if !deadline.IsZero() && (expiresAt.IsZero() || deadline.Before(expiresAt)) {
		expiresAt = deadline
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evict(now)
	}
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
}

func (s *Store[V]) evict(now time.Time) {
	for key, e := range s.entries {
		if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
			delete(s.entries, key)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}
	for key := range s.entries {
		delete(s.entries, key)
		return
	}
}

// Invalidate drops every key starting with prefix.
func (s *Store[V]) Invalidate(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// GetOrLoad returns the cached value for key or calls load once across
// concurrent callers and caches a successful result.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, _, err := s.loads.Do(ctx, key, func() (V, error) {
		if cached, ok := s.Get(key); ok {
			return cached, nil
		}
		loaded, err := load(ctx)
		if err != nil {
			return loaded, err
		}
		s.Set(key, loaded)
		return loaded, nil
	})
	return v, err
}
