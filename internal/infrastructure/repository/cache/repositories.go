// Package cache decorates read-mostly repositories with an in-process cache.
package cache

import (
	"context"
	"slices"
	"strconv"

	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
	basecache "github.com/riskibarqy/sport-alerts/internal/platform/cache"
)

const (
	sportListKey    = "sport:list:active"
	bannerKeyPrefix = "banner:latest:"
)

// SportRepository caches the active sport list. Sports only change through
// migrations, so entries simply age out.
type SportRepository struct {
	next  sport.Repository
	cache *basecache.Store[[]sport.Sport]
}

func NewSportRepository(next sport.Repository, cache *basecache.Store[[]sport.Sport]) *SportRepository {
	return &SportRepository{next: next, cache: cache}
}

func (r *SportRepository) ListActive(ctx context.Context) ([]sport.Sport, error) {
	items, err := r.cache.GetOrLoad(ctx, sportListKey, r.next.ListActive)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// BannerRepository caches the public latest-banner listing and drops it on every write.
type BannerRepository struct {
	next  banner.Repository
	cache *basecache.Store[[]banner.Banner]
}

func NewBannerRepository(next banner.Repository, cache *basecache.Store[[]banner.Banner]) *BannerRepository {
	return &BannerRepository{next: next, cache: cache}
}

func (r *BannerRepository) GetByID(ctx context.Context, bannerID string) (banner.Banner, bool, error) {
	return r.next.GetByID(ctx, bannerID)
}

func (r *BannerRepository) ListLatest(ctx context.Context, limit int) ([]banner.Banner, error) {
	items, err := r.cache.GetOrLoad(ctx, bannerKeyPrefix+strconv.Itoa(limit), func(ctx context.Context) ([]banner.Banner, error) {
		return r.next.ListLatest(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *BannerRepository) Create(ctx context.Context, b banner.Banner) error {
	if err := r.next.Create(ctx, b); err != nil {
		return err
	}
	r.cache.Invalidate(bannerKeyPrefix)
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, bannerID string) (bool, error) {
	deleted, err := r.next.Delete(ctx, bannerID)
	if err != nil {
		return false, err
	}
	if deleted {
		r.cache.Invalidate(bannerKeyPrefix)
	}
	return deleted, nil
}
