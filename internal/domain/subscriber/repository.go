package subscriber

import "context"

type Repository interface {
	GetByEmail(ctx context.Context, email string) (Subscriber, bool, error)
	List(ctx context.Context) ([]Subscriber, error)
	ListActiveEmails(ctx context.Context) ([]string, error)
	Create(ctx context.Context, s Subscriber) error
	Update(ctx context.Context, s Subscriber) error
}
