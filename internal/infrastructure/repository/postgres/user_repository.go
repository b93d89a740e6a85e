package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getOne(ctx, "get user by id", qb.Eq("public_id", userID))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, "get user by username", qb.Expr("LOWER(username) = LOWER(?)", username))
}

func (r *UserRepository) getOne(ctx context.Context, op string, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(cond).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	query, args, err := qb.InsertModel("users", userInsertModel{
		PublicID:     u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		SportType:    u.SportType,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username already exists", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("insert user username=%s: %w", u.Username, err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	query, args, err := qb.Update("users").
		Set("username", u.Username).
		Set("password_hash", u.PasswordHash).
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", string(u.Role)).
		Set("sport_type", u.SportType).
		Set("is_active", u.IsActive).
		Set("updated_at", u.UpdatedAt).
		Where(qb.Eq("public_id", u.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username already exists", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("update user id=%s: %w", u.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update user id=%s: %w", u.ID, errRowMissing)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) (bool, error) {
	query, args, err := qb.DeleteFrom("users").Where(qb.Eq("public_id", userID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete user query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete user id=%s: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	query, args, err := qb.Update("users").
		Set("last_login", at).
		Where(qb.Eq("public_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch last login query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch last login id=%s: %w", userID, err)
	}
	return nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.PublicID,
		Username:     row.Username,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         user.Role(row.Role),
		SportType:    row.SportType,
		IsActive:     row.IsActive,
		LastLogin:    row.LastLogin,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
