package mail

import (
	"context"

	"github.com/riskibarqy/sport-alerts/external/resend"
)

type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(client *resend.Client) *ResendTransport {
	return &ResendTransport{client: client}
}

func (t *ResendTransport) Deliver(ctx context.Context, email Email) error {
	_, err := t.client.Send(ctx, resend.SendRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	return err
}
