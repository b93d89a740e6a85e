package user

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
