package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPublicMatchLimit = 50
	maxPublicMatchLimit     = 200
)

// ResultNotifier fans a recorded result out to subscribers and reports how many were addressed.
type ResultNotifier interface {
	NotifyResult(ctx context.Context, m match.Match) (int, error)
}

type MatchInput struct {
	SportType string
	Team1     string
	Team2     string
	Date      string
	TimeStart string
	TimeEnd   string
	Location  string
	MapsLink  string
}

// MatchPatch carries optional schedule edits; nil fields are left untouched.
type MatchPatch struct {
	SportType *string
	Team1     *string
	Team2     *string
	Date      *string
	TimeStart *string
	TimeEnd   *string
	Location  *string
	MapsLink  *string
}

type ListPublicMatchesInput struct {
	Limit  int
	Search string
}

type RecordResultInput struct {
	MatchID   string
	HomeScore int
	AwayScore int
	Winner    string
}

type MatchService struct {
	repo     match.Repository
	notifier ResultNotifier
	activity *ActivityLogService
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(
	repo match.Repository,
	notifier ResultNotifier,
	activity *ActivityLogService,
	ids id.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		repo:     repo,
		notifier: notifier,
		activity: activity,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

// ListBySport returns the matches an operator manages, ordered by date and start time.
// Admins may omit sport to list every match.
func (s *MatchService) ListBySport(ctx context.Context, principal user.Principal, sport string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListBySport")
	defer span.End()

	sport = strings.TrimSpace(sport)
	if sport == "" && !principal.IsAdmin() {
		if principal.Role != user.RoleSportManager {
			return nil, fmt.Errorf("%w: sport is required", ErrInvalidInput)
		}
		sport = principal.SportType
	}

	items, err := s.repo.List(ctx, match.ListFilter{SportType: sport})
	if err != nil {
		return nil, fmt.Errorf("list matches by sport: %w", err)
	}
	return items, nil
}

func (s *MatchService) ListPublic(ctx context.Context, input ListPublicMatchesInput) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListPublic")
	defer span.End()

	limit := input.Limit
	if limit <= 0 {
		limit = defaultPublicMatchLimit
	}
	if limit > maxPublicMatchLimit {
		limit = maxPublicMatchLimit
	}

	items, err := s.repo.List(ctx, match.ListFilter{
		Search: strings.TrimSpace(input.Search),
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list public matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	return s.load(ctx, matchID)
}

func (s *MatchService) Create(ctx context.Context, principal user.Principal, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	date, err := match.ParseDate(input.Date)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	item := match.Match{
		SportType: strings.TrimSpace(input.SportType),
		Team1:     strings.TrimSpace(input.Team1),
		Team2:     strings.TrimSpace(input.Team2),
		Date:      date,
		TimeStart: strings.TrimSpace(input.TimeStart),
		TimeEnd:   strings.TrimSpace(input.TimeEnd),
		Location:  strings.TrimSpace(input.Location),
		MapsLink:  strings.TrimSpace(input.MapsLink),
		Status:    match.StatusScheduled,
		CreatedBy: principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.ValidateSchedule(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !principal.CanManageSport(item.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only manage matches of your own sport", ErrForbidden)
	}

	item.ID, err = s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionCreateMatch,
		Target:   item.SportType + ": " + item.Teams(),
		TargetID: item.ID,
		Details:  scheduleDetails(item),
	})
	return item, nil
}

func (s *MatchService) Update(ctx context.Context, principal user.Principal, matchID string, patch MatchPatch) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update", attribute.String("match.id", matchID))
	defer span.End()

	current, err := s.load(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !principal.CanManageSport(current.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only manage matches of your own sport", ErrForbidden)
	}

	updated, err := applyMatchPatch(current, patch)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := updated.ValidateSchedule(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !principal.CanManageSport(updated.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only move matches into your own sport", ErrForbidden)
	}
	if scheduleMoved(current, updated) {
		updated.ReminderSentAt = nil
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateSchedule(ctx, updated); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionUpdateMatch,
		Target:   updated.SportType + ": " + updated.Teams(),
		TargetID: updated.ID,
		Details:  scheduleDetails(updated),
	})
	return updated, nil
}

// UpdateStatus lets an operator advance a match by hand. COMPLETED is reachable
// only through RecordResult.
func (s *MatchService) UpdateStatus(ctx context.Context, principal user.Principal, matchID, status string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateStatus", attribute.String("match.id", matchID))
	defer span.End()

	target, err := match.ParseStatus(status)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if target == match.StatusCompleted {
		return match.Match{}, fmt.Errorf("%w: record a result to complete a match", ErrInvalidInput)
	}

	current, err := s.load(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !principal.CanManageSport(current.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only manage matches of your own sport", ErrForbidden)
	}
	if target.Before(current.Status) {
		return match.Match{}, fmt.Errorf("%w: cannot move match from %s back to %s", ErrInvalidState, current.Status, target)
	}
	if target == current.Status {
		return current, nil
	}

	now := s.now().UTC()
	changed, err := s.repo.TransitionStatus(ctx, current.ID, current.Status, target, now)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}
	if !changed {
		return match.Match{}, fmt.Errorf("%w: match status changed concurrently", ErrInvalidState)
	}

	previous := current.Status
	current.Status = target
	current.UpdatedAt = now
	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionUpdateMatchStatus,
		Target:   current.SportType + ": " + current.Teams(),
		TargetID: current.ID,
		Details:  map[string]any{"from": string(previous), "to": string(target)},
	})
	return current, nil
}

func (s *MatchService) Delete(ctx context.Context, principal user.Principal, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete", attribute.String("match.id", matchID))
	defer span.End()

	current, err := s.load(ctx, matchID)
	if err != nil {
		return err
	}
	if !principal.CanManageSport(current.SportType) {
		return fmt.Errorf("%w: you can only manage matches of your own sport", ErrForbidden)
	}

	deleted, err := s.repo.Delete(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: match=%s", ErrNotFound, current.ID)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionDeleteMatch,
		Target:   current.SportType + ": " + current.Teams(),
		TargetID: current.ID,
	})
	return nil
}

// RecordResult commits the final score and forces the match to COMPLETED. The
// subscriber notification that follows is best-effort: its failure is logged
// and never undoes the write.
func (s *MatchService) RecordResult(ctx context.Context, principal user.Principal, input RecordResultInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordResult", attribute.String("match.id", input.MatchID))
	defer span.End()

	result := match.Result{
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
		Winner:    match.Winner(strings.ToLower(strings.TrimSpace(input.Winner))),
	}
	if err := result.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := s.load(ctx, input.MatchID)
	if err != nil {
		return match.Match{}, err
	}
	if !principal.CanManageSport(current.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only record results for your own sport", ErrForbidden)
	}
	if !current.AcceptsResult() {
		return match.Match{}, fmt.Errorf("%w: match is %s; results can be recorded once it has finished", ErrInvalidState, current.Status)
	}

	now := s.now().UTC()
	if err := s.repo.SaveResult(ctx, current.ID, result, now); err != nil {
		return match.Match{}, fmt.Errorf("save match result: %w", err)
	}
	current.ApplyResult(result, now)

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionUpdateMatchScore,
		Target:   current.SportType + ": " + current.Teams(),
		TargetID: current.ID,
		Details: map[string]any{
			"homeScore": result.HomeScore,
			"awayScore": result.AwayScore,
			"winner":    string(result.Winner),
		},
	})

	if s.notifier != nil {
		sent, notifyErr := s.notifier.NotifyResult(ctx, current)
		if notifyErr != nil {
			s.logger.WarnContext(ctx, "match result notification failed",
				"match_id", current.ID,
				"error", notifyErr,
			)
		} else {
			s.logger.InfoContext(ctx, "match result notification sent",
				"match_id", current.ID,
				"recipients", sent,
			)
		}
	}

	return current, nil
}

func (s *MatchService) load(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	item, exists, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func applyMatchPatch(m match.Match, patch MatchPatch) (match.Match, error) {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&m.SportType, patch.SportType)
	assign(&m.Team1, patch.Team1)
	assign(&m.Team2, patch.Team2)
	assign(&m.TimeStart, patch.TimeStart)
	assign(&m.TimeEnd, patch.TimeEnd)
	assign(&m.Location, patch.Location)
	assign(&m.MapsLink, patch.MapsLink)
	if patch.Date != nil {
		date, err := match.ParseDate(*patch.Date)
		if err != nil {
			return match.Match{}, err
		}
		m.Date = date
	}
	return m, nil
}

func scheduleMoved(before, after match.Match) bool {
	return before.CalendarDate() != after.CalendarDate() ||
		before.TimeStart != after.TimeStart ||
		before.TimeEnd != after.TimeEnd
}

func scheduleDetails(m match.Match) map[string]any {
	return map[string]any{
		"sportType": m.SportType,
		"date":      m.CalendarDate(),
		"timeStart": m.TimeStart,
		"timeEnd":   m.TimeEnd,
		"location":  m.Location,
	}
}
