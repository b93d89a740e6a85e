package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
)

type SportRepository struct {
	db *sqlx.DB
}

func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) ListActive(ctx context.Context) ([]sport.Sport, error) {
	query, args, err := qb.Select("*").From("sports").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sports query: %w", err)
	}

	var rows []sportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sports: %w", err)
	}

	out := make([]sport.Sport, 0, len(rows))
	for _, row := range rows {
		out = append(out, sport.Sport{
			ID:          row.PublicID,
			Name:        row.Name,
			Code:        row.Code,
			Description: row.Description,
			Icon:        row.Icon,
			IsActive:    row.IsActive,
		})
	}
	return out, nil
}
