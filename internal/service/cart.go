package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	"github.com/refh96/catalogo-rancho-sub000/internal/event"
	"github.com/refh96/catalogo-rancho-sub000/internal/repository"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

// Counter name for catalog-to-cart conversions.
const counterCartAdds = "cart_adds"

// AddItemInput holds the parameters for adding a product to the cart. Adding
// always contributes quantity 1; repeat adds of the same product merge into
// the existing line.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
	Category  string `json:"category"`
}

// CheckoutDetailsInput holds the delivery mode and buyer details stored on
// the ledger between page loads.
type CheckoutDetailsInput struct {
	DeliveryMode string       `json:"delivery_mode" validate:"required,oneof=delivery pickup"`
	Buyer        domain.Buyer `json:"buyer"`
}

// CartService implements the business logic for cart ledger operations. The
// redis repository owns cart expiry, so the service tracks no TTL of its own.
type CartService struct {
	repo     repository.CartRepository
	counters repository.CounterRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	counters repository.CounterRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		repo:     repo,
		counters: counters,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an
// empty cart without persisting it.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds one unit of a product to the session's cart. If the product is
// already in the cart its quantity grows by one; otherwise a new line is
// appended at the end so the cart view stays in insertion order.
// Uses optimistic locking to prevent races on concurrent cart modifications.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.UnitPrice < 0 {
		return nil, apperrors.InvalidInput("unit price must not be negative")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version

	if i := cart.FindItemIndex(input.ProductID); i >= 0 {
		cart.Items[i].Quantity++
		// Refresh the denormalized product fields in case they changed.
		cart.Items[i].Name = input.Name
		cart.Items[i].UnitPrice = input.UnitPrice
		cart.Items[i].ImageURL = input.ImageURL
		cart.Items[i].Category = input.Category
	} else {
		cart.Items = append(cart.Items, domain.LineItem{
			ProductID: input.ProductID,
			Name:      input.Name,
			UnitPrice: input.UnitPrice,
			Quantity:  1,
			ImageURL:  input.ImageURL,
			Category:  input.Category,
		})
	}

	cart.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("cart was modified concurrently, please retry")
	}

	// Conversion counter and event are best-effort; the add already happened.
	if err := s.counters.Increment(ctx, counterCartAdds, 1); err != nil {
		s.logger.WarnContext(ctx, "failed to increment cart_adds counter",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// RemoveItem removes a product line from the cart. Removing a product that is
// not in the cart leaves the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil
	}

	expectedVersion := cart.Version
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	cart.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("cart was modified concurrently, please retry")
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// SetQuantity sets the quantity of a product line. A quantity below one
// removes the line; a product that is not in the cart is a no-op.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if quantity < 1 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(productID)
	if i < 0 {
		return cart, nil
	}

	expectedVersion := cart.Version
	cart.Items[i].Quantity = quantity
	cart.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("cart was modified concurrently, please retry")
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// SetCheckoutDetails stores the delivery mode and buyer details on the ledger
// so a page reload does not lose the half-filled checkout form.
func (s *CartService) SetCheckoutDetails(ctx context.Context, sessionID string, input CheckoutDetailsInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if !domain.IsValidMode(input.DeliveryMode) {
		return nil, apperrors.InvalidInput("delivery mode must be delivery or pickup")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	expectedVersion := cart.Version
	cart.DeliveryMode = input.DeliveryMode
	cart.Buyer = input.Buyer
	cart.UpdatedAt = time.Now().UTC()

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("cart was modified concurrently, please retry")
	}

	s.logger.InfoContext(ctx, "checkout details stored",
		slog.String("session_id", sessionID),
		slog.String("delivery_mode", input.DeliveryMode),
	)

	return cart, nil
}

// Clear removes the session's cart entirely: items, delivery mode, and buyer
// details all reset.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID, "user_cleared"); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if
// it does not exist yet. The empty cart is not persisted until a mutation.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) newEmptyCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: sessionID,
		Items:     []domain.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
