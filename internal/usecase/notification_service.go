package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

type NotificationConfig struct {
	BatchSize int
	Workers   int
}

type NotificationResult struct {
	MatchID string `json:"matchId"`
	SentTo  int    `json:"sentTo"`
}

// NotificationService fans match emails out to every active subscriber.
type NotificationService struct {
	matches     match.Repository
	subscribers subscriber.Repository
	sender      notification.Sender
	activity    *ActivityLogService
	cfg         NotificationConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewNotificationService(
	matches match.Repository,
	subscribers subscriber.Repository,
	sender notification.Sender,
	activity *ActivityLogService,
	cfg NotificationConfig,
	logger *logging.Logger,
) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &NotificationService{
		matches:     matches,
		subscribers: subscribers,
		sender:      sender,
		activity:    activity,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// SendReminder sends the 24-hour reminder for one match on an operator's request
// and marks the match as reminded.
func (s *NotificationService) SendReminder(ctx context.Context, principal user.Principal, matchID string) (NotificationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendReminder")
	defer span.End()

	item, err := s.authorizedMatch(ctx, principal, matchID)
	if err != nil {
		return NotificationResult{}, err
	}

	sent, err := s.DeliverReminder(ctx, item)
	if err == nil || sent > 0 {
		// A partially delivered reminder still counts as sent so the sweep
		// does not repeat it for the recipients who already have it.
		if markErr := s.matches.MarkReminderSent(ctx, item.ID, s.now().UTC()); markErr != nil {
			s.logger.WarnContext(ctx, "mark reminder sent failed", "match_id", item.ID, "error", markErr)
		}
	}
	if err != nil {
		return NotificationResult{MatchID: item.ID, SentTo: sent}, err
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionSendReminder,
		Target:   item.SportType + ": " + item.Teams(),
		TargetID: item.ID,
		Details:  map[string]any{"sentTo": sent},
	})
	return NotificationResult{MatchID: item.ID, SentTo: sent}, nil
}

// SendResult re-sends the final score of a completed match.
func (s *NotificationService) SendResult(ctx context.Context, principal user.Principal, matchID string) (NotificationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendResult")
	defer span.End()

	item, err := s.authorizedMatch(ctx, principal, matchID)
	if err != nil {
		return NotificationResult{}, err
	}
	if _, ok := item.Result(); item.Status != match.StatusCompleted || !ok {
		return NotificationResult{}, fmt.Errorf("%w: match has no recorded result", ErrInvalidState)
	}

	sent, err := s.NotifyResult(ctx, item)
	if err != nil {
		return NotificationResult{MatchID: item.ID, SentTo: sent}, err
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionSendMatchResult,
		Target:   item.SportType + ": " + item.Teams(),
		TargetID: item.ID,
		Details:  map[string]any{"sentTo": sent},
	})
	return NotificationResult{MatchID: item.ID, SentTo: sent}, nil
}

func (s *NotificationService) NotifyResult(ctx context.Context, m match.Match) (int, error) {
	return s.broadcast(ctx, notification.TemplateMatchResult, m)
}

func (s *NotificationService) DeliverReminder(ctx context.Context, m match.Match) (int, error) {
	return s.broadcast(ctx, notification.TemplateMatchReminder, m)
}

// broadcast returns the number of recipients in batches that were accepted by
// the sender. Any failed batch makes the whole call fail with ErrNotification.
func (s *NotificationService) broadcast(ctx context.Context, template notification.Template, m match.Match) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.broadcast")
	defer span.End()

	recipients, err := s.subscribers.ListActiveEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list active subscribers: %v", ErrNotification, err)
	}
	if len(recipients) == 0 {
		s.logger.InfoContext(ctx, "no active subscribers to notify", "match_id", m.ID, "template", template)
		return 0, nil
	}

	fields := notification.FieldsFromMatch(m)
	batches := chunkStrings(recipients, s.cfg.BatchSize)

	pool, err := ants.NewPool(min(s.cfg.Workers, len(batches)))
	if err != nil {
		return 0, fmt.Errorf("create notification worker pool: %w", err)
	}
	defer pool.Release()

	var (
		sent    atomic.Int32
		wg      sync.WaitGroup
		errMu   sync.Mutex
		sendErr []error
	)
	for _, batch := range batches {
		batch := batch
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			msg := notification.Message{Template: template, Recipients: batch, Match: &fields}
			if err := s.sender.Send(ctx, msg); err != nil {
				errMu.Lock()
				sendErr = append(sendErr, err)
				errMu.Unlock()
				return
			}
			sent.Add(int32(len(batch)))
		}); err != nil {
			wg.Done()
			errMu.Lock()
			sendErr = append(sendErr, fmt.Errorf("submit notification batch: %w", err))
			errMu.Unlock()
		}
	}
	wg.Wait()

	total := int(sent.Load())
	if len(sendErr) > 0 {
		return total, fmt.Errorf("%w: %d of %d batches failed: %w", ErrNotification, len(sendErr), len(batches), errors.Join(sendErr...))
	}
	s.logger.InfoContext(ctx, "match notification delivered",
		"match_id", m.ID,
		"template", template,
		"recipients", total,
		"batches", len(batches),
	)
	return total, nil
}

func (s *NotificationService) authorizedMatch(ctx context.Context, principal user.Principal, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: matchId is required", ErrInvalidInput)
	}
	item, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !principal.CanManageSport(item.SportType) {
		return match.Match{}, fmt.Errorf("%w: you can only notify about your own sport", ErrForbidden)
	}
	return item, nil
}

func chunkStrings(items []string, size int) [][]string {
	if size <= 0 {
		size = len(items)
	}
	out := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
