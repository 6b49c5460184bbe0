// Package whatsapp sends order messages through a WhatsApp HTTP gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/refh96/catalogo-rancho-sub000/pkg/httpclient"
)

// Sender posts order messages to a WhatsApp gateway. Calls go through a
// circuit breaker so a dead gateway fails fast instead of holding checkout
// requests open.
type Sender struct {
	client     *httpclient.CircuitBreakerClient
	gatewayURL string
	logger     *slog.Logger
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// New creates a WhatsApp sender that posts to the given gateway URL.
func New(client *httpclient.CircuitBreakerClient, gatewayURL string, logger *slog.Logger) *Sender {
	return &Sender{
		client:     client,
		gatewayURL: gatewayURL,
		logger:     logger,
	}
}

// Name identifies the sender in logs and health output.
func (s *Sender) Name() string {
	return "whatsapp"
}

// Send posts the message to the gateway. Any non-2xx response is an error;
// the caller decides what happens to the order.
func (s *Sender) Send(ctx context.Context, message, destination string) error {
	payload, err := json.Marshal(sendRequest{
		To:   destination,
		Body: message,
	})
	if err != nil {
		return fmt.Errorf("marshal whatsapp request: %w", err)
	}

	resp, err := s.client.Post(ctx, s.gatewayURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post to whatsapp gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	s.logger.InfoContext(ctx, "order message dispatched",
		slog.String("sender", s.Name()),
		slog.String("destination", destination),
	)

	return nil
}
