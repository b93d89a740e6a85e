package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
)

type SportRepository struct {
	mu    sync.RWMutex
	items []sport.Sport
}

func NewSportRepository(sports []sport.Sport) *SportRepository {
	return &SportRepository{items: append([]sport.Sport(nil), sports...)}
}

func (r *SportRepository) ListActive(_ context.Context) ([]sport.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sport.Sport, 0, len(r.items))
	for _, s := range r.items {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
