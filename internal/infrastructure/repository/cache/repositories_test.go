package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
	bannermock "github.com/riskibarqy/sport-alerts/internal/mocks/domain/banner"
	sportmock "github.com/riskibarqy/sport-alerts/internal/mocks/domain/sport"
	basecache "github.com/riskibarqy/sport-alerts/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestSportRepository_ListActiveLoadsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := sportmock.NewRepository(t)
	next.On("ListActive", mock.Anything).
		Return([]sport.Sport{{ID: "sport-bb", Name: "Basketball", IsActive: true}}, nil).
		Once()

	repo := NewSportRepository(next, basecache.NewStore[[]sport.Sport](time.Minute, 0))
	for i := 0; i < 3; i++ {
		items, err := repo.ListActive(ctx)
		if err != nil {
			t.Fatalf("list active: %v", err)
		}
		if len(items) != 1 || items[0].ID != "sport-bb" {
			t.Fatalf("unexpected sports: %+v", items)
		}
	}
}

func TestBannerRepository_WriteInvalidatesLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := bannermock.NewRepository(t)
	first := []banner.Banner{{ID: "b-1"}}
	second := []banner.Banner{{ID: "b-2"}, {ID: "b-1"}}

	next.On("ListLatest", mock.Anything, 1).Return(first, nil).Once()
	next.On("Create", mock.Anything, banner.Banner{ID: "b-2"}).Return(nil).Once()
	next.On("ListLatest", mock.Anything, 1).Return(second[:1], nil).Once()

	repo := NewBannerRepository(next, basecache.NewStore[[]banner.Banner](time.Minute, 0))

	got, err := repo.ListLatest(ctx, 1)
	if err != nil || got[0].ID != "b-1" {
		t.Fatalf("unexpected first listing: got=%+v err=%v", got, err)
	}
	if got, _ = repo.ListLatest(ctx, 1); got[0].ID != "b-1" {
		t.Fatalf("expected cached listing: got=%+v", got)
	}
	if err := repo.Create(ctx, banner.Banner{ID: "b-2"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, _ = repo.ListLatest(ctx, 1); got[0].ID != "b-2" {
		t.Fatalf("expected reload after create: got=%+v", got)
	}
}
