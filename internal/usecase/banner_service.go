package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

const (
	MaxBannerBytes       = 10 << 20
	bannerHistoryLimit   = 20
	defaultPublicBanners = 10
	maxPublicBanners     = 50
)

var allowedBannerTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type BannerService struct {
	repo     banner.Repository
	images   banner.ImageStore
	activity *ActivityLogService
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewBannerService(
	repo banner.Repository,
	images banner.ImageStore,
	activity *ActivityLogService,
	ids id.Generator,
	logger *logging.Logger,
) *BannerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BannerService{
		repo:     repo,
		images:   images,
		activity: activity,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BannerService) Upload(ctx context.Context, principal user.Principal, in banner.Upload) (banner.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BannerService.Upload")
	defer span.End()

	if !principal.HasAnyRole(user.RoleAdmin, user.RoleEditor, user.RoleSportManager) {
		return banner.Banner{}, fmt.Errorf("%w: your role cannot upload banners", ErrForbidden)
	}
	if in.Body == nil || in.Size <= 0 {
		return banner.Banner{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if in.Size > MaxBannerBytes {
		return banner.Banner{}, fmt.Errorf("%w: file exceeds %d MB", ErrInvalidInput, MaxBannerBytes>>20)
	}
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if _, ok := allowedBannerTypes[contentType]; !ok {
		return banner.Banner{}, fmt.Errorf("%w: only JPEG, PNG, GIF and WebP images are allowed", ErrInvalidInput)
	}
	in.ContentType = contentType
	in.Filename = filepath.Base(strings.TrimSpace(in.Filename))

	if s.images == nil {
		return banner.Banner{}, fmt.Errorf("%w: image storage is not configured", ErrDependencyUnavailable)
	}
	stored, err := s.images.Upload(ctx, in)
	if err != nil {
		return banner.Banner{}, fmt.Errorf("%w: upload banner image: %v", ErrDependencyUnavailable, err)
	}

	bannerID, err := s.ids.NewID()
	if err != nil {
		return banner.Banner{}, fmt.Errorf("generate banner id: %w", err)
	}
	item := banner.Banner{
		ID:         bannerID,
		Filename:   in.Filename,
		URL:        stored.URL,
		PublicID:   stored.PublicID,
		UploadedBy: principal.UserID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.destroyQuietly(ctx, stored.PublicID)
		return banner.Banner{}, fmt.Errorf("create banner: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionUploadBanner,
		Target:   item.Filename,
		TargetID: item.ID,
		Details:  map[string]any{"url": item.URL, "size": in.Size},
	})
	return item, nil
}

// Delete removes a banner. Admins may delete any banner; other roles only their own.
func (s *BannerService) Delete(ctx context.Context, principal user.Principal, bannerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BannerService.Delete")
	defer span.End()

	bannerID = strings.TrimSpace(bannerID)
	if bannerID == "" {
		return fmt.Errorf("%w: banner id is required", ErrInvalidInput)
	}
	item, exists, err := s.repo.GetByID(ctx, bannerID)
	if err != nil {
		return fmt.Errorf("get banner: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: banner=%s", ErrNotFound, bannerID)
	}
	if !principal.IsAdmin() && item.UploadedBy != principal.UserID {
		return fmt.Errorf("%w: you can only delete banners you uploaded", ErrForbidden)
	}

	deleted, err := s.repo.Delete(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: banner=%s", ErrNotFound, bannerID)
	}
	s.destroyQuietly(ctx, item.PublicID)

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionDeleteBanner,
		Target:   item.Filename,
		TargetID: item.ID,
	})
	return nil
}

func (s *BannerService) History(ctx context.Context) ([]banner.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BannerService.History")
	defer span.End()

	items, err := s.repo.ListLatest(ctx, bannerHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list banner history: %w", err)
	}
	return items, nil
}

func (s *BannerService) Latest(ctx context.Context) (banner.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BannerService.Latest")
	defer span.End()

	items, err := s.repo.ListLatest(ctx, 1)
	if err != nil {
		return banner.Banner{}, fmt.Errorf("get latest banner: %w", err)
	}
	if len(items) == 0 {
		return banner.Banner{}, fmt.Errorf("%w: no banner uploaded yet", ErrNotFound)
	}
	return items[0], nil
}

func (s *BannerService) ListPublic(ctx context.Context, limit int) ([]banner.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BannerService.ListPublic")
	defer span.End()

	if limit <= 0 {
		limit = defaultPublicBanners
	}
	if limit > maxPublicBanners {
		limit = maxPublicBanners
	}
	items, err := s.repo.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list public banners: %w", err)
	}
	return items, nil
}

func (s *BannerService) destroyQuietly(ctx context.Context, publicID string) {
	if strings.TrimSpace(publicID) == "" || s.images == nil {
		return
	}
	if err := s.images.Destroy(ctx, publicID); err != nil {
		s.logger.WarnContext(ctx, "destroy banner image failed", "public_id", publicID, "error", err)
	}
}
