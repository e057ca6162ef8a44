package mail

import (
	"context"
	"log/slog"
)

// Message is the structured payload handed to the email-delivery provider.
// Template rendering happens on the provider side; Body carries plain text.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender is the boundary to the external email-delivery provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender records outbound messages to the log instead of delivering them.
// Used in development and as the default when no provider is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements the Sender interface.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("outbound email",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
