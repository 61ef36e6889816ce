package email

import (
	"context"
	"log/slog"
)

// LogMailer records messages in the log instead of sending them. Bodies are
// never logged because they may contain a temporary password.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a development transport.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Deliver(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "email suppressed",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Text),
	)
	return nil
}
