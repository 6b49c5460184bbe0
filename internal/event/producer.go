package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	pkgkafka "github.com/refh96/catalogo-rancho-sub000/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated    = "rancho.cart.updated"
	TopicCartCleared    = "rancho.cart.cleared"
	TopicOrderSubmitted = "rancho.order.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from this storefront.
const SourceStorefront = "catalogo-rancho"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  int64             `json:"subtotal"`
	Version   int               `json:"version"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"session_id"`
	Items        []domain.LineItem `json:"items"`
	DeliveryMode string            `json:"delivery_mode"`
	Comuna       string            `json:"comuna,omitempty"`
	Subtotal     int64             `json:"subtotal"`
	DeliveryFee  int64             `json:"delivery_fee"`
	Total        int64             `json:"total"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Items:     cart.Items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
		Version:   cart.Version,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID, reason string) error {
	data := CartClearedData{
		SessionID: sessionID,
		Reason:    reason,
	}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
		slog.String("reason", reason),
	)

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, order *domain.Order) error {
	data := OrderSubmittedData{
		ID:           order.ID,
		SessionID:    order.SessionID,
		Items:        order.Items,
		DeliveryMode: order.DeliveryMode,
		Comuna:       order.Buyer.Comuna,
		Subtotal:     order.Subtotal,
		DeliveryFee:  order.DeliveryFee,
		Total:        order.Total,
	}

	event, err := pkgkafka.NewEvent(TopicOrderSubmitted, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, event); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("order_id", order.ID),
		slog.String("session_id", order.SessionID),
		slog.Int64("total", order.Total),
	)

	return nil
}
