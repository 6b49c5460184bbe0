// Package mock provides a dispatch sender that only logs. It stands in for
// the WhatsApp gateway in local development and tests.
package mock

import (
	"context"
	"log/slog"
)

// Sender logs each message instead of delivering it. Send never fails.
type Sender struct {
	logger *slog.Logger
}

// New creates a logging mock sender.
func New(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name identifies the sender in logs and health output.
func (s *Sender) Name() string {
	return "mock"
}

// Send logs the message and reports success.
func (s *Sender) Send(ctx context.Context, message, destination string) error {
	s.logger.InfoContext(ctx, "mock dispatch",
		slog.String("destination", destination),
		slog.String("message", message),
	)
	return nil
}
