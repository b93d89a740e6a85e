package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
)

type ActivityInput struct {
	Actor    user.Principal
	Action   activitylog.Action
	Target   string
	TargetID string
	Details  map[string]any
}

type ListActivityInput struct {
	Page   int
	Limit  int
	Filter string
	Search string
}

type ActivityPage struct {
	Logs       []activitylog.Entry `json:"logs"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	HasMore    bool                `json:"hasMore"`
}

type ActivityLogService struct {
	repo   activitylog.Repository
	ids    id.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewActivityLogService(repo activitylog.Repository, ids id.Generator, logger *logging.Logger) *ActivityLogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ActivityLogService{
		repo:   repo,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends an audit entry. Failures are logged and never returned.
func (s *ActivityLogService) Record(ctx context.Context, input ActivityInput) {
	if s == nil || s.repo == nil {
		return
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.ActivityLogService.Record")
	defer span.End()

	entryID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate activity log id failed", "action", input.Action, "error", err)
		return
	}

	meta := RequestMetaFromContext(ctx)
	entry := activitylog.Entry{
		ID:        entryID,
		UserID:    input.Actor.UserID,
		UserName:  input.Actor.DisplayName(),
		UserRole:  string(input.Actor.Role),
		Action:    input.Action,
		Target:    input.Target,
		TargetID:  input.TargetID,
		Details:   input.Details,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if entry.UserID == "" {
		entry.UserID = "anonymous"
		entry.UserName = "anonymous"
		entry.UserRole = string(user.RoleUser)
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "record activity log failed",
			"action", input.Action,
			"target_id", input.TargetID,
			"error", err,
		)
	}
}

func (s *ActivityLogService) List(ctx context.Context, input ListActivityInput) (ActivityPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ActivityLogService.List")
	defer span.End()

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultActivityPageSize
	}
	if limit > maxActivityPageSize {
		limit = maxActivityPageSize
	}

	entries, total, err := s.repo.List(ctx, activitylog.ListFilter{
		Category: activitylog.ParseCategory(input.Filter),
		Search:   strings.TrimSpace(input.Search),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return ActivityPage{}, fmt.Errorf("list activity logs: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	return ActivityPage{
		Logs:       entries,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}
