package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender writes messages to the log instead of delivering them. It is
// used when SMTP is not configured.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email *Email) (string, error) {
	if err := email.checkRecipients(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.logger.Info("email not sent, smtp disabled",
		"message_id", id,
		"to", email.To,
		"subject", email.Subject,
		"category", email.Category,
	)
	return id, nil
}
