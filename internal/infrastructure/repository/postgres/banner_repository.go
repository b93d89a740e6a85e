package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
)

type BannerRepository struct {
	db *sqlx.DB
}

func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

func (r *BannerRepository) GetByID(ctx context.Context, bannerID string) (banner.Banner, bool, error) {
	query, args, err := qb.Select("*").From("banners").
		Where(qb.Eq("public_id", bannerID)).
		ToSQL()
	if err != nil {
		return banner.Banner{}, false, fmt.Errorf("build get banner query: %w", err)
	}

	var row bannerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return banner.Banner{}, false, nil
		}
		return banner.Banner{}, false, fmt.Errorf("get banner by id: %w", err)
	}
	return bannerFromRow(row), true, nil
}

func (r *BannerRepository) ListLatest(ctx context.Context, limit int) ([]banner.Banner, error) {
	query, args, err := qb.Select("*").From("banners").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list banners query: %w", err)
	}

	var rows []bannerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select banners: %w", err)
	}
	out := make([]banner.Banner, 0, len(rows))
	for _, row := range rows {
		out = append(out, bannerFromRow(row))
	}
	return out, nil
}

func (r *BannerRepository) Create(ctx context.Context, b banner.Banner) error {
	query, args, err := qb.InsertModel("banners", bannerInsertModel{
		PublicID:        b.ID,
		Filename:        b.Filename,
		URL:             b.URL,
		StoragePublicID: b.PublicID,
		UploadedBy:      b.UploadedBy,
		CreatedAt:       b.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert banner query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert banner id=%s: %w", b.ID, err)
	}
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, bannerID string) (bool, error) {
	query, args, err := qb.DeleteFrom("banners").Where(qb.Eq("public_id", bannerID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete banner query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete banner id=%s: %w", bannerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete banner rows affected: %w", err)
	}
	return affected > 0, nil
}

func bannerFromRow(row bannerTableModel) banner.Banner {
	return banner.Banner{
		ID:         row.PublicID,
		Filename:   row.Filename,
		URL:        row.URL,
		PublicID:   row.StoragePublicID,
		UploadedBy: row.UploadedBy,
		CreatedAt:  row.CreatedAt,
	}
}
