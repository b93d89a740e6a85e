package mail

import (
	"context"

	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

// LogTransport records emails instead of sending them. Used in dev.
type LogTransport struct {
	logger *logging.Logger
}

func NewLogTransport(logger *logging.Logger) *LogTransport {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Deliver(ctx context.Context, email Email) error {
	t.logger.InfoContext(ctx, "email captured by log transport",
		"from", email.From,
		"to", email.To,
		"subject", email.Subject,
		"html_bytes", len(email.HTML),
	)
	return nil
}
