package subscriber

import "time"

// Subscriber is an email address on the notification fan-out list.
type Subscriber struct {
	ID        string
	Email     string
	IsActive  bool
	Sports    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
