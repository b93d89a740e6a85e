package banner

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Banner, bool, error)
	ListLatest(ctx context.Context, limit int) ([]Banner, error)
	Create(ctx context.Context, b Banner) error
	Delete(ctx context.Context, id string) (bool, error)
}
