package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type SubscriberRepository struct {
	db *sqlx.DB
}

func NewSubscriberRepository(db *sqlx.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (subscriber.Subscriber, bool, error) {
	query, args, err := qb.Select("id", "public_id", "email", "is_active", "sports::text AS sports", "created_at", "updated_at").
		From("subscribers").
		Where(qb.Eq("email", email)).
		ToSQL()
	if err != nil {
		return subscriber.Subscriber{}, false, fmt.Errorf("build get subscriber query: %w", err)
	}

	var row subscriberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return subscriber.Subscriber{}, false, nil
		}
		return subscriber.Subscriber{}, false, fmt.Errorf("get subscriber by email: %w", err)
	}
	return subscriberFromRow(row), true, nil
}

func (r *SubscriberRepository) List(ctx context.Context) ([]subscriber.Subscriber, error) {
	query, args, err := qb.Select("id", "public_id", "email", "is_active", "sports::text AS sports", "created_at", "updated_at").
		From("subscribers").
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list subscribers query: %w", err)
	}

	var rows []subscriberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select subscribers: %w", err)
	}
	out := make([]subscriber.Subscriber, 0, len(rows))
	for _, row := range rows {
		out = append(out, subscriberFromRow(row))
	}
	return out, nil
}

func (r *SubscriberRepository) ListActiveEmails(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("email").From("subscribers").
		Where(qb.Eq("is_active", true)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active subscriber emails query: %w", err)
	}

	var emails []string
	if err := r.db.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, fmt.Errorf("select active subscriber emails: %w", err)
	}
	return emails, nil
}

func (r *SubscriberRepository) Create(ctx context.Context, s subscriber.Subscriber) error {
	sports, err := encodeStringList(s.Sports)
	if err != nil {
		return fmt.Errorf("encode subscriber sports: %w", err)
	}
	query, args, err := qb.InsertModel("subscribers", subscriberInsertModel{
		PublicID:  s.ID,
		Email:     s.Email,
		IsActive:  s.IsActive,
		Sports:    sports,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert subscriber query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email is already subscribed", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepository) Update(ctx context.Context, s subscriber.Subscriber) error {
	sports, err := encodeStringList(s.Sports)
	if err != nil {
		return fmt.Errorf("encode subscriber sports: %w", err)
	}
	query, args, err := qb.Update("subscribers").
		Set("is_active", s.IsActive).
		SetExpr("sports", "?::jsonb", sports).
		Set("updated_at", s.UpdatedAt).
		Where(qb.Eq("public_id", s.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update subscriber query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update subscriber id=%s: %w", s.ID, err)
	}
	return nil
}

func subscriberFromRow(row subscriberTableModel) subscriber.Subscriber {
	return subscriber.Subscriber{
		ID:        row.PublicID,
		Email:     row.Email,
		IsActive:  row.IsActive,
		Sports:    decodeStringList(row.Sports),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func encodeStringList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	raw, err := jsoniter.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeStringList(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := jsoniter.UnmarshalFromString(raw, &out); err != nil {
		return []string{}
	}
	return out
}
