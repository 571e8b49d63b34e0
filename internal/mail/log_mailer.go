package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info("mail not sent, SMTP is not configured", "to", msg.To, "subject", msg.Subject)
	return nil
}
