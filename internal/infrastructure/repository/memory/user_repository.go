package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, u := range users {
		items[u.ID] = u
	}
	return &UserRepository{items: items}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	return u, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if strings.EqualFold(u.Username, username) {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usernameTakenLocked(u.Username, u.ID) {
		return fmt.Errorf("username %s already exists", u.Username)
	}
	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[u.ID]
	if !ok {
		return fmt.Errorf("update user id=%s: not found", u.ID)
	}
	if r.usernameTakenLocked(u.Username, u.ID) {
		return fmt.Errorf("username %s already exists", u.Username)
	}
	u.CreatedAt = current.CreatedAt
	u.LastLogin = current.LastLogin
	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[userID]; !ok {
		return false, nil
	}
	delete(r.items, userID)
	return true, nil
}

func (r *UserRepository) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.items[userID]; ok {
		u.LastLogin = &at
		r.items[userID] = u
	}
	return nil
}

func (r *UserRepository) usernameTakenLocked(username, selfID string) bool {
	for id, u := range r.items {
		if id != selfID && strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}
