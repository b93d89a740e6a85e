package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

type SubscribeInput struct {
	Email  string
	Sports []string
}

type SubscriberService struct {
	repo     subscriber.Repository
	sender   notification.Sender
	activity *ActivityLogService
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewSubscriberService(
	repo subscriber.Repository,
	sender notification.Sender,
	activity *ActivityLogService,
	ids id.Generator,
	logger *logging.Logger,
) *SubscriberService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubscriberService{
		repo:     repo,
		sender:   sender,
		activity: activity,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

// Subscribe adds an address to the fan-out list, reactivating it if it had
// unsubscribed. The welcome email is best-effort.
func (s *SubscriberService) Subscribe(ctx context.Context, input SubscribeInput) (subscriber.Subscriber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriberService.Subscribe")
	defer span.End()

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return subscriber.Subscriber{}, err
	}
	sports := normalizeSports(input.Sports)

	existing, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return subscriber.Subscriber{}, fmt.Errorf("get subscriber: %w", err)
	}

	now := s.now().UTC()
	var saved subscriber.Subscriber
	switch {
	case exists && existing.IsActive:
		return subscriber.Subscriber{}, fmt.Errorf("%w: email is already subscribed", ErrInvalidInput)
	case exists:
		existing.IsActive = true
		existing.Sports = sports
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return subscriber.Subscriber{}, fmt.Errorf("reactivate subscriber: %w", err)
		}
		saved = existing
	default:
		subscriberID, err := s.ids.NewID()
		if err != nil {
			return subscriber.Subscriber{}, fmt.Errorf("generate subscriber id: %w", err)
		}
		saved = subscriber.Subscriber{
			ID:        subscriberID,
			Email:     email,
			IsActive:  true,
			Sports:    sports,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, saved); err != nil {
			return subscriber.Subscriber{}, fmt.Errorf("create subscriber: %w", err)
		}
	}

	if s.sender != nil {
		if err := s.sender.Send(ctx, notification.Message{
			Template:   notification.TemplateWelcome,
			Recipients: []string{email},
		}); err != nil {
			s.logger.WarnContext(ctx, "send welcome email failed", "subscriber_id", saved.ID, "error", err)
		}
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    anonymousActor(email),
		Action:   activitylog.ActionEmailSubscribe,
		Target:   email,
		TargetID: saved.ID,
		Details:  map[string]any{"sports": sports, "reactivated": exists},
	})
	return saved, nil
}

// Unsubscribe deactivates the address; the row is kept for reactivation.
func (s *SubscriberService) Unsubscribe(ctx context.Context, rawEmail string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriberService.Unsubscribe")
	defer span.End()

	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}
	existing, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get subscriber: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: subscriber=%s", ErrNotFound, email)
	}
	if !existing.IsActive {
		return nil
	}

	existing.IsActive = false
	existing.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    anonymousActor(email),
		Action:   activitylog.ActionEmailUnsubscribe,
		Target:   email,
		TargetID: existing.ID,
	})
	return nil
}

func (s *SubscriberService) List(ctx context.Context) ([]subscriber.Subscriber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriberService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return items, nil
}

func (s *SubscriberService) GetByEmail(ctx context.Context, rawEmail string) (subscriber.Subscriber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubscriberService.GetByEmail")
	defer span.End()

	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return subscriber.Subscriber{}, err
	}
	item, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return subscriber.Subscriber{}, fmt.Errorf("get subscriber: %w", err)
	}
	if !exists {
		return subscriber.Subscriber{}, fmt.Errorf("%w: subscriber=%s", ErrNotFound, email)
	}
	return item, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	return email, nil
}

func normalizeSports(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

func anonymousActor(email string) user.Principal {
	return user.Principal{UserID: "subscriber", Username: email, Role: user.RoleUser}
}
