package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
)

// ActivityLogRepository keeps entries newest first.
type ActivityLogRepository struct {
	mu      sync.RWMutex
	entries []activitylog.Entry
}

func NewActivityLogRepository() *ActivityLogRepository {
	return &ActivityLogRepository{}
}

func (r *ActivityLogRepository) Insert(_ context.Context, entry activitylog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]activitylog.Entry{entry}, r.entries...)
	return nil
}

func (r *ActivityLogRepository) List(_ context.Context, filter activitylog.ListFilter) ([]activitylog.Entry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := make(map[activitylog.Action]struct{})
	for _, action := range filter.Category.Actions() {
		allowed[action] = struct{}{}
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]activitylog.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if len(allowed) > 0 {
			if _, ok := allowed[e.Action]; !ok {
				continue
			}
		}
		if search != "" && !containsFold(search, e.UserName, string(e.Action), e.Target, e.UserRole) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}
