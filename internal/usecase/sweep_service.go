package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// ReminderDeliverer sends the 24-hour reminder for a match to all subscribers.
type ReminderDeliverer interface {
	DeliverReminder(ctx context.Context, m match.Match) (int, error)
}

type SweepConfig struct {
	Concurrency int
}

type StatusTransition struct {
	MatchID string       `json:"matchId"`
	From    match.Status `json:"from"`
	To      match.Status `json:"to"`
}

type ReminderOutcome struct {
	MatchID string `json:"matchId"`
	Sport   string `json:"sport"`
	Teams   string `json:"teams"`
	Success bool   `json:"success"`
	SentTo  int    `json:"sentTo"`
	Error   string `json:"error,omitempty"`
}

type SweepResult struct {
	EvaluatedAt   string             `json:"evaluatedAt"`
	Checked       int                `json:"checked"`
	Transitions   []StatusTransition `json:"transitions"`
	Reminders     []ReminderOutcome  `json:"reminders"`
	RemindersSent int                `json:"remindersSent"`
	Recipients    int                `json:"recipients"`
}

// SweepService re-evaluates match statuses and sends due 24-hour reminders.
// It is driven by an external scheduler through the internal job endpoints.
type SweepService struct {
	matches   match.Repository
	reminders ReminderDeliverer
	cfg       SweepConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewSweepService(matches match.Repository, reminders ReminderDeliverer, cfg SweepConfig, logger *logging.Logger) *SweepService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &SweepService{
		matches:   matches,
		reminders: reminders,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run evaluates every open match and then sends reminders for the ones due.
func (s *SweepService) Run(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Run")
	defer span.End()

	now := bangkokNow(s.now)
	items, err := s.openMatches(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := newSweepResult(now, len(items))
	result.Transitions = s.evaluate(ctx, items, now)
	s.remind(ctx, items, now, &result)
	return result, nil
}

// EvaluateStatuses persists status changes without sending reminders.
func (s *SweepService) EvaluateStatuses(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.EvaluateStatuses")
	defer span.End()

	now := bangkokNow(s.now)
	items, err := s.openMatches(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := newSweepResult(now, len(items))
	result.Transitions = s.evaluate(ctx, items, now)
	return result, nil
}

// CheckReminders sends due reminders without touching statuses.
func (s *SweepService) CheckReminders(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.CheckReminders")
	defer span.End()

	now := bangkokNow(s.now)
	items, err := s.openMatches(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := newSweepResult(now, len(items))
	s.remind(ctx, items, now, &result)
	return result, nil
}

func newSweepResult(now time.Time, checked int) SweepResult {
	return SweepResult{
		EvaluatedAt: now.Format(time.RFC3339),
		Checked:     checked,
		Transitions: []StatusTransition{},
		Reminders:   []ReminderOutcome{},
	}
}

func (s *SweepService) openMatches(ctx context.Context) ([]match.Match, error) {
	items, err := s.matches.List(ctx, match.ListFilter{ExcludeCompleted: true})
	if err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}
	return items, nil
}

// evaluate updates items in place so the reminder pass sees fresh statuses.
func (s *SweepService) evaluate(ctx context.Context, items []match.Match, now time.Time) []StatusTransition {
	transitions := make([]StatusTransition, 0)
	for i := range items {
		stored := items[i].Status
		next := match.Evaluate(items[i], now)
		if next == stored {
			continue
		}

		changed, err := s.matches.TransitionStatus(ctx, items[i].ID, stored, next, now.UTC())
		if err != nil {
			s.logger.WarnContext(ctx, "persist match status failed",
				"match_id", items[i].ID,
				"from", stored,
				"to", next,
				"error", err,
			)
			continue
		}
		if !changed {
			s.logger.DebugContext(ctx, "match status changed concurrently, skipping",
				"match_id", items[i].ID,
				"from", stored,
			)
			continue
		}

		items[i].Status = next
		transitions = append(transitions, StatusTransition{MatchID: items[i].ID, From: stored, To: next})
		s.logger.InfoContext(ctx, "match status changed",
			"match_id", items[i].ID,
			"from", stored,
			"to", next,
		)
	}
	return transitions
}

func (s *SweepService) remind(ctx context.Context, items []match.Match, now time.Time, result *SweepResult) {
	if s.reminders == nil {
		return
	}

	p := pool.NewWithResults[ReminderOutcome]().WithMaxGoroutines(s.cfg.Concurrency)
	for _, item := range items {
		if !match.ReminderDue(item, now) {
			continue
		}
		item := item
		p.Go(func() ReminderOutcome {
			return s.remindOne(ctx, item, now)
		})
	}

	for _, outcome := range p.Wait() {
		if outcome.MatchID == "" {
			continue
		}
		if outcome.Success {
			result.RemindersSent++
		}
		result.Recipients += outcome.SentTo
		result.Reminders = append(result.Reminders, outcome)
	}
	sort.Slice(result.Reminders, func(i, j int) bool {
		return result.Reminders[i].MatchID < result.Reminders[j].MatchID
	})
}

// remindOne claims the reminder marker before sending so overlapping sweeps
// never double-send. The claim is released only when no recipient got the
// reminder; a partial delivery keeps it and reports the failure.
func (s *SweepService) remindOne(ctx context.Context, item match.Match, now time.Time) ReminderOutcome {
	outcome := ReminderOutcome{
		MatchID: item.ID,
		Sport:   item.SportType,
		Teams:   item.Teams(),
	}

	claimed, err := s.matches.ClaimReminder(ctx, item.ID, now.UTC())
	if err != nil {
		outcome.Error = fmt.Sprintf("claim reminder: %v", err)
		return outcome
	}
	if !claimed {
		return ReminderOutcome{}
	}

	sent, err := s.reminders.DeliverReminder(ctx, item)
	outcome.SentTo = sent
	if err == nil {
		outcome.Success = true
		return outcome
	}

	outcome.Error = err.Error()
	if sent > 0 {
		if markErr := s.matches.MarkReminderSent(ctx, item.ID, now.UTC()); markErr != nil {
			s.logger.WarnContext(ctx, "mark partial reminder failed", "match_id", item.ID, "error", markErr)
		}
		s.logger.WarnContext(ctx, "24h reminder partially delivered", "match_id", item.ID, "sent_to", sent, "error", err)
		return outcome
	}
	if releaseErr := s.matches.ReleaseReminder(ctx, item.ID); releaseErr != nil {
		s.logger.WarnContext(ctx, "release reminder claim failed", "match_id", item.ID, "error", releaseErr)
	}
	s.logger.WarnContext(ctx, "send 24h reminder failed", "match_id", item.ID, "error", err)
	return outcome
}
