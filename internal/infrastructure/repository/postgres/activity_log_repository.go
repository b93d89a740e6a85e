package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
)

var activityLogColumns = []string{
	"id", "public_id", "user_id", "user_name", "user_role", "action", "target", "target_id",
	"details::text AS details", "ip_address", "user_agent", "created_at",
}

type ActivityLogRepository struct {
	db *sqlx.DB
}

func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Insert(ctx context.Context, entry activitylog.Entry) error {
	details, err := marshalPayload(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}
	query, args, err := qb.InsertModel("activity_logs", activityLogInsertModel{
		PublicID:  entry.ID,
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		UserRole:  entry.UserRole,
		Action:    string(entry.Action),
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		Details:   details,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: entry.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert activity log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity log action=%s: %w", entry.Action, err)
	}
	return nil
}

func (r *ActivityLogRepository) List(ctx context.Context, filter activitylog.ListFilter) ([]activitylog.Entry, int, error) {
	conditions := activityLogConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(1)").From("activity_logs").Where(conditions...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count activity logs query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}
	if total == 0 {
		return []activitylog.Entry{}, 0, nil
	}

	query, args, err := qb.Select(activityLogColumns...).From("activity_logs").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list activity logs query: %w", err)
	}

	var rows []activityLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select activity logs: %w", err)
	}
	out := make([]activitylog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, activityLogFromRow(row))
	}
	return out, total, nil
}

func activityLogConditions(filter activitylog.ListFilter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 2)
	if actions := filter.Category.Actions(); len(actions) > 0 {
		values := make([]any, 0, len(actions))
		for _, action := range actions {
			values = append(values, string(action))
		}
		conditions = append(conditions, qb.In("action", values))
	}
	if filter.Search != "" {
		conditions = append(conditions, qb.ILikeAny(filter.Search, "user_name", "action", "target", "user_role"))
	}
	return conditions
}

func activityLogFromRow(row activityLogTableModel) activitylog.Entry {
	details := map[string]any{}
	if row.Details != "" {
		_ = jsoniter.UnmarshalFromString(row.Details, &details)
	}
	return activitylog.Entry{
		ID:        row.PublicID,
		UserID:    row.UserID,
		UserName:  row.UserName,
		UserRole:  row.UserRole,
		Action:    activitylog.Action(row.Action),
		Target:    row.Target,
		TargetID:  row.TargetID,
		Details:   details,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
		CreatedAt: row.CreatedAt,
	}
}
