package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/memory"
)

// BootstrapSeed fills the sports catalogue when it is empty and, when admin is
// non-zero, creates the first admin account on an empty users table.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, admin user.User) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var sportCount int
	if err := tx.GetContext(ctx, &sportCount, `SELECT COUNT(1) FROM sports WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if sportCount == 0 {
		for _, s := range memory.SeedSports() {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO sports (public_id, name, code, description, icon, is_active)
VALUES (:public_id, :name, :code, :description, :icon, :is_active)
ON CONFLICT (code) DO NOTHING`, map[string]any{
				"public_id":   s.ID,
				"name":        s.Name,
				"code":        s.Code,
				"description": s.Description,
				"icon":        s.Icon,
				"is_active":   s.IsActive,
			})
			if err != nil {
				return fmt.Errorf("bind seed sport %s query: %w", s.Code, err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
				return fmt.Errorf("seed sport %s: %w", s.Code, err)
			}
		}
	}

	if admin.Username != "" && admin.PasswordHash != "" {
		var userCount int
		if err := tx.GetContext(ctx, &userCount, `SELECT COUNT(1) FROM users`); err != nil {
			return fmt.Errorf("count users for bootstrap seed: %w", err)
		}
		if userCount == 0 {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, username, password_hash, name, email, role, sport_type, is_active, created_at, updated_at)
VALUES (:public_id, :username, :password_hash, :name, :email, :role, '', TRUE, :created_at, :created_at)`, map[string]any{
				"public_id":     admin.ID,
				"username":      admin.Username,
				"password_hash": admin.PasswordHash,
				"name":          admin.Name,
				"email":         admin.Email,
				"role":          string(user.RoleAdmin),
				"created_at":    admin.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("bind seed admin query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
				return fmt.Errorf("seed admin %s: %w", admin.Username, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
