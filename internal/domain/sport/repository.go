package sport

import "context"

type Repository interface {
	ListActive(ctx context.Context) ([]Sport, error)
}
