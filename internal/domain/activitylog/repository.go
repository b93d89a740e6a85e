package activitylog

import "context"

type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter ListFilter) ([]Entry, int, error)
}
