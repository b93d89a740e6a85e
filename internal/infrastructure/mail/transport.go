package mail

import "context"

// Email is one rendered message addressed to a batch of recipients.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type Transport interface {
	Deliver(ctx context.Context, email Email) error
}
