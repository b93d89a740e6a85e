package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) List(_ context.Context, filter match.ListFilter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if filter.SportType != "" && !strings.EqualFold(m.SportType, filter.SportType) {
			continue
		}
		if filter.ExcludeCompleted && m.Status == match.StatusCompleted {
			continue
		}
		if search != "" && !containsFold(search, m.SportType, m.Team1, m.Team2, m.Location) {
			continue
		}
		out = append(out, cloneMatch(m))
	}

	sort.Slice(out, func(i, j int) bool {
		if di, dj := out[i].CalendarDate(), out[j].CalendarDate(); di != dj {
			return di < dj
		}
		if out[i].TimeStart != out[j].TimeStart {
			return out[i].TimeStart < out[j].TimeStart
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; exists {
		return fmt.Errorf("match id=%s already exists", m.ID)
	}
	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) UpdateSchedule(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[m.ID]
	if !ok {
		return fmt.Errorf("update match id=%s: not found", m.ID)
	}
	current.SportType = m.SportType
	current.Team1 = m.Team1
	current.Team2 = m.Team2
	current.Date = m.Date
	current.TimeStart = m.TimeStart
	current.TimeEnd = m.TimeEnd
	current.Location = m.Location
	current.MapsLink = m.MapsLink
	current.ReminderSentAt = cloneTime(m.ReminderSentAt)
	current.UpdatedAt = m.UpdatedAt
	r.items[m.ID] = current
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[matchID]; !ok {
		return false, nil
	}
	delete(r.items, matchID)
	return true, nil
}

func (r *MatchRepository) TransitionStatus(_ context.Context, matchID string, from, to match.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[matchID]
	if !ok || current.Status != from {
		return false, nil
	}
	current.Status = to
	current.UpdatedAt = at
	r.items[matchID] = current
	return true, nil
}

func (r *MatchRepository) SaveResult(_ context.Context, matchID string, result match.Result, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("save match result id=%s: not found", matchID)
	}
	current.ApplyResult(result, at)
	r.items[matchID] = current
	return nil
}

func (r *MatchRepository) ClaimReminder(_ context.Context, matchID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[matchID]
	if !ok || current.ReminderSentAt != nil {
		return false, nil
	}
	current.ReminderSentAt = &at
	r.items[matchID] = current
	return true, nil
}

func (r *MatchRepository) ReleaseReminder(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.items[matchID]; ok {
		current.ReminderSentAt = nil
		r.items[matchID] = current
	}
	return nil
}

func (r *MatchRepository) MarkReminderSent(_ context.Context, matchID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("mark reminder sent id=%s: not found", matchID)
	}
	current.ReminderSentAt = &at
	r.items[matchID] = current
	return nil
}

func cloneMatch(m match.Match) match.Match {
	out := m
	if m.HomeScore != nil {
		home := *m.HomeScore
		out.HomeScore = &home
	}
	if m.AwayScore != nil {
		away := *m.AwayScore
		out.AwayScore = &away
	}
	out.ReminderSentAt = cloneTime(m.ReminderSentAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func containsFold(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
