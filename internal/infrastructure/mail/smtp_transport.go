package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/go-mail/mail/v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPTransport dials per delivery. Recipients are placed in Bcc so a batch
// never exposes subscriber addresses to each other.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		dialer.Timeout = cfg.Timeout
	}
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		dialer.StartTLSPolicy = gomail.NoStartTLS
	}
	return &SMTPTransport{dialer: dialer}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", email.From)
	msg.SetHeader("To", email.From)
	msg.SetHeader("Bcc", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	if err := t.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", t.dialer.Host, t.dialer.Port, err)
	}
	return nil
}
