package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/refh96/catalogo-rancho-sub000/internal/dispatch"
	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	"github.com/refh96/catalogo-rancho-sub000/internal/event"
	"github.com/refh96/catalogo-rancho-sub000/internal/repository"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

// Payment methods the storefront accepts.
var validPaymentMethods = map[string]struct{}{
	"efectivo":      {},
	"transferencia": {},
	"tarjeta":       {},
}

// SubmitOrderInput holds the checkout form fields. Address and comuna are
// only required when the delivery mode is delivery.
type SubmitOrderInput struct {
	DeliveryMode  string `json:"delivery_mode" validate:"required,oneof=delivery pickup"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address"`
	Comuna        string `json:"comuna"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes"`
}

// OrderService composes order snapshots from cart ledgers and hands the
// rendered message to the dispatch sink. The storefront keeps no order
// database; the dispatched message is the order.
type OrderService struct {
	carts       repository.CartRepository
	sender      dispatch.Sender
	destination string
	producer    *event.Producer
	logger      *slog.Logger
}

// NewOrderService creates a new order service. destination is where composed
// messages are sent (for the WhatsApp sender, the shop's phone number).
func NewOrderService(
	carts repository.CartRepository,
	sender dispatch.Sender,
	destination string,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		carts:       carts,
		sender:      sender,
		destination: destination,
		producer:    producer,
		logger:      logger,
	}
}

// Submit validates the checkout form against the session's cart, builds the
// order snapshot, composes the message, and dispatches it. The cart is only
// cleared after the dispatch succeeds; a failed dispatch keeps the cart
// intact so the shopper can retry without re-entering anything.
func (s *OrderService) Submit(ctx context.Context, sessionID string, input SubmitOrderInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := validateSubmitInput(input); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	fee, err := domain.DeliveryFee(input.DeliveryMode, input.Comuna, cart.Subtotal())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownComuna) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("no delivery coverage for comuna %q", input.Comuna))
		}
		return nil, fmt.Errorf("compute delivery fee: %w", err)
	}

	buyer := domain.Buyer{
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		Comuna:        strings.TrimSpace(input.Comuna),
		PaymentMethod: strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		Notes:         strings.TrimSpace(input.Notes),
	}

	order := domain.NewOrder(uuid.New().String(), cart, input.DeliveryMode, buyer, fee)
	message := domain.ComposeMessage(order)

	if err := s.sender.Send(ctx, message, s.destination); err != nil {
		s.logger.ErrorContext(ctx, "order dispatch failed",
			slog.String("order_id", order.ID),
			slog.String("session_id", sessionID),
			slog.String("sender", s.sender.Name()),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ServiceUnavailable("order could not be sent, please try again")
	}

	// The order went out. Clearing the cart and publishing are best-effort
	// from here on; neither failure can undo the dispatch.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order dispatch",
			slog.String("order_id", order.ID),
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else if err := s.producer.PublishCartCleared(ctx, sessionID, "order_submitted"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderSubmitted(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("order_id", order.ID),
		slog.String("session_id", sessionID),
		slog.String("delivery_mode", order.DeliveryMode),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

func validateSubmitInput(input SubmitOrderInput) error {
	if !domain.IsValidMode(input.DeliveryMode) {
		return apperrors.InvalidInput("delivery mode must be delivery or pickup")
	}
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return apperrors.InvalidInput("phone is required")
	}
	payment := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if payment == "" {
		return apperrors.InvalidInput("payment method is required")
	}
	if _, ok := validPaymentMethods[payment]; !ok {
		return apperrors.InvalidInput("payment method must be efectivo, transferencia, or tarjeta")
	}
	if input.DeliveryMode == domain.ModeDelivery {
		if strings.TrimSpace(input.Address) == "" {
			return apperrors.InvalidInput("address is required for delivery")
		}
		if strings.TrimSpace(input.Comuna) == "" {
			return apperrors.InvalidInput("comuna is required for delivery")
		}
	}
	return nil
}
