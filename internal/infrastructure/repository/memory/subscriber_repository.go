package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
)

type SubscriberRepository struct {
	mu      sync.RWMutex
	byEmail map[string]subscriber.Subscriber
}

func NewSubscriberRepository() *SubscriberRepository {
	return &SubscriberRepository{byEmail: make(map[string]subscriber.Subscriber)}
}

func (r *SubscriberRepository) GetByEmail(_ context.Context, email string) (subscriber.Subscriber, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byEmail[email]
	return cloneSubscriber(s), ok, nil
}

func (r *SubscriberRepository) List(_ context.Context) ([]subscriber.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subscriber.Subscriber, 0, len(r.byEmail))
	for _, s := range r.byEmail {
		out = append(out, cloneSubscriber(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SubscriberRepository) ListActiveEmails(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byEmail))
	for email, s := range r.byEmail {
		if s.IsActive {
			out = append(out, email)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *SubscriberRepository) Create(_ context.Context, s subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[s.Email]; exists {
		return fmt.Errorf("subscriber %s already exists", s.Email)
	}
	r.byEmail[s.Email] = cloneSubscriber(s)
	return nil
}

func (r *SubscriberRepository) Update(_ context.Context, s subscriber.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[s.Email]; !exists {
		return fmt.Errorf("update subscriber %s: not found", s.Email)
	}
	r.byEmail[s.Email] = cloneSubscriber(s)
	return nil
}

func cloneSubscriber(s subscriber.Subscriber) subscriber.Subscriber {
	s.Sports = append([]string(nil), s.Sports...)
	return s
}
