package jobscheduler

import "context"

type Repository interface {
	Record(ctx context.Context, event DispatchEvent) error
}
