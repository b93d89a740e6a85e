package match

import (
	"context"
	"time"
)

// ListFilter narrows match listings. Zero values mean no restriction.
type ListFilter struct {
	SportType        string
	Search           string
	ExcludeCompleted bool
	Limit            int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Match, error)
	Create(ctx context.Context, m Match) error
	// UpdateSchedule persists operator-editable fields and ReminderSentAt.
	UpdateSchedule(ctx context.Context, m Match) error
	Delete(ctx context.Context, id string) (bool, error)
	// TransitionStatus moves the match from one status to another only if the
	// stored status still equals from.
	TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) (bool, error)
	SaveResult(ctx context.Context, id string, result Result, at time.Time) error
	// ClaimReminder sets ReminderSentAt only when it is unset.
	ClaimReminder(ctx context.Context, id string, at time.Time) (bool, error)
	ReleaseReminder(ctx context.Context, id string) error
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}
