package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
)

type captureTransport struct {
	emails []Email
	err    error
}

func (t *captureTransport) Deliver(_ context.Context, email Email) error {
	if t.err != nil {
		return t.err
	}
	t.emails = append(t.emails, email)
	return nil
}

func TestSender_SendWelcome(t *testing.T) {
	t.Parallel()

	renderer, err := NewRenderer("")
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	transport := &captureTransport{}
	sender, err := NewSender(renderer, transport, "alerts@example.com", nil)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	err = sender.Send(context.Background(), notification.Message{
		Template:   notification.TemplateWelcome,
		Recipients: []string{"fan@example.com"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(transport.emails) != 1 {
		t.Fatalf("unexpected deliveries: got=%d want=1", len(transport.emails))
	}
	email := transport.emails[0]
	if email.From != "alerts@example.com" || email.To[0] != "fan@example.com" {
		t.Fatalf("unexpected envelope: %+v", email)
	}
	if want := "🎉 ยินดีต้อนรับสู่ระบบแจ้งเตือนกีฬา EN Sport Alerts!"; email.Subject != want {
		t.Fatalf("unexpected subject: got=%q want=%q", email.Subject, want)
	}
}

func TestSender_WrapsTransportError(t *testing.T) {
	t.Parallel()

	renderer, _ := NewRenderer("")
	boom := errors.New("smtp down")
	sender, err := NewSender(renderer, &captureTransport{err: boom}, "alerts@example.com", nil)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	err = sender.Send(context.Background(), notification.Message{
		Template:   notification.TemplateWelcome,
		Recipients: []string{"fan@example.com"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error to be wrapped, got %v", err)
	}
}

func TestSender_RequiresRecipients(t *testing.T) {
	t.Parallel()

	renderer, _ := NewRenderer("")
	sender, _ := NewSender(renderer, NewLogTransport(nil), "alerts@example.com", nil)
	if err := sender.Send(context.Background(), notification.Message{Template: notification.TemplateWelcome}); err == nil {
		t.Fatalf("expected empty recipient list to be rejected")
	}
}
