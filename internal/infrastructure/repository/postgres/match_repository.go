package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) List(ctx context.Context, filter match.ListFilter) ([]match.Match, error) {
	conditions := make([]qb.Condition, 0, 3)
	if filter.SportType != "" {
		conditions = append(conditions, qb.Expr("LOWER(sport_type) = LOWER(?)", filter.SportType))
	}
	if filter.Search != "" {
		conditions = append(conditions, qb.ILikeAny(filter.Search, "sport_type", "team1", "team2", "location"))
	}
	if filter.ExcludeCompleted {
		conditions = append(conditions, qb.Expr("status <> ?", string(match.StatusCompleted)))
	}

	builder := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("match_date", "time_start", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	model := matchInsertModel{
		PublicID:  m.ID,
		SportType: m.SportType,
		Team1:     m.Team1,
		Team2:     m.Team2,
		MatchDate: m.CalendarDate(),
		TimeStart: m.TimeStart,
		TimeEnd:   m.TimeEnd,
		Location:  m.Location,
		MapsLink:  m.MapsLink,
		Status:    string(m.Status),
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	query, args, err := qb.InsertModel("matches", model, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match id=%s: %w", m.ID, err)
	}
	return nil
}

func (r *MatchRepository) UpdateSchedule(ctx context.Context, m match.Match) error {
	query, args, err := qb.Update("matches").
		Set("sport_type", m.SportType).
		Set("team1", m.Team1).
		Set("team2", m.Team2).
		Set("match_date", m.CalendarDate()).
		Set("time_start", m.TimeStart).
		Set("time_end", m.TimeEnd).
		Set("location", m.Location).
		Set("maps_link", m.MapsLink).
		Set("reminder_sent_at", m.ReminderSentAt).
		Set("updated_at", m.UpdatedAt).
		Where(qb.Eq("public_id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	return r.execExpectRow(ctx, "update match", m.ID, query, args)
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}
	return r.execAffected(ctx, "delete match", query, args)
}

func (r *MatchRepository) TransitionStatus(ctx context.Context, matchID string, from, to match.Status, at time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(to)).
		Set("updated_at", at).
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build transition match status query: %w", err)
	}
	return r.execAffected(ctx, "transition match status", query, args)
}

func (r *MatchRepository) SaveResult(ctx context.Context, matchID string, result match.Result, at time.Time) error {
	query, args, err := qb.Update("matches").
		Set("home_score", result.HomeScore).
		Set("away_score", result.AwayScore).
		Set("winner", string(result.Winner)).
		Set("status", string(match.StatusCompleted)).
		Set("updated_at", at).
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save match result query: %w", err)
	}
	return r.execExpectRow(ctx, "save match result", matchID, query, args)
}

func (r *MatchRepository) ClaimReminder(ctx context.Context, matchID string, at time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("reminder_sent_at", at).
		Where(
			qb.Eq("public_id", matchID),
			qb.IsNull("reminder_sent_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim reminder query: %w", err)
	}
	return r.execAffected(ctx, "claim reminder", query, args)
}

func (r *MatchRepository) ReleaseReminder(ctx context.Context, matchID string) error {
	query, args, err := qb.Update("matches").
		SetExpr("reminder_sent_at", "NULL").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release reminder query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release reminder id=%s: %w", matchID, err)
	}
	return nil
}

func (r *MatchRepository) MarkReminderSent(ctx context.Context, matchID string, at time.Time) error {
	query, args, err := qb.Update("matches").
		Set("reminder_sent_at", at).
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark reminder sent query: %w", err)
	}
	return r.execExpectRow(ctx, "mark reminder sent", matchID, query, args)
}

func (r *MatchRepository) execAffected(ctx context.Context, op, query string, args []any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) execExpectRow(ctx context.Context, op, matchID, query string, args []any) error {
	changed, err := r.execAffected(ctx, op, query, args)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("%s id=%s: %w", op, matchID, errRowMissing)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	m := match.Match{
		ID:             row.PublicID,
		SportType:      row.SportType,
		Team1:          row.Team1,
		Team2:          row.Team2,
		Date:           calendarDate(row.MatchDate),
		TimeStart:      row.TimeStart,
		TimeEnd:        row.TimeEnd,
		Location:       row.Location,
		MapsLink:       row.MapsLink,
		Status:         match.Status(row.Status),
		Winner:         match.Winner(row.Winner.String),
		ReminderSentAt: row.ReminderSentAt,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.HomeScore.Valid {
		home := int(row.HomeScore.Int64)
		m.HomeScore = &home
	}
	if row.AwayScore.Valid {
		away := int(row.AwayScore.Int64)
		m.AwayScore = &away
	}
	return m
}

// calendarDate re-anchors a DATE column value at Bangkok midnight.
func calendarDate(value time.Time) time.Time {
	y, mo, d := value.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, match.Bangkok)
}
