package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
)

type BannerRepository struct {
	mu    sync.RWMutex
	items map[string]banner.Banner
}

func NewBannerRepository() *BannerRepository {
	return &BannerRepository{items: make(map[string]banner.Banner)}
}

func (r *BannerRepository) GetByID(_ context.Context, bannerID string) (banner.Banner, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[bannerID]
	return b, ok, nil
}

func (r *BannerRepository) ListLatest(_ context.Context, limit int) ([]banner.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]banner.Banner, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *BannerRepository) Create(_ context.Context, b banner.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[b.ID] = b
	return nil
}

func (r *BannerRepository) Delete(_ context.Context, bannerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bannerID]; !ok {
		return false, nil
	}
	delete(r.items, bannerID)
	return true, nil
}
