package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/notification"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

// Sender implements notification.Sender by rendering the template and handing
// the result to a Transport.
type Sender struct {
	renderer  *Renderer
	transport Transport
	from      string
	logger    *logging.Logger
}

func NewSender(renderer *Renderer, transport Transport, from string, logger *logging.Logger) (*Sender, error) {
	if renderer == nil || transport == nil {
		return nil, fmt.Errorf("mail renderer and transport are required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sender{renderer: renderer, transport: transport, from: strings.TrimSpace(from), logger: logger}, nil
}

func (s *Sender) Send(ctx context.Context, msg notification.Message) error {
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	rendered, err := s.renderer.Render(msg)
	if err != nil {
		return err
	}

	started := time.Now()
	err = s.transport.Deliver(ctx, Email{
		From:    s.from,
		To:      msg.Recipients,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "email delivery failed",
			"template", msg.Template,
			"recipients", len(msg.Recipients),
			"error", err,
		)
		return fmt.Errorf("deliver %s email: %w", msg.Template, err)
	}

	s.logger.InfoContext(ctx, "email delivered",
		"template", msg.Template,
		"recipients", len(msg.Recipients),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}
