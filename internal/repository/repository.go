package repository

import (
	"context"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
)

// CartRepository defines the persistence operations for cart ledgers. A cart
// is stored whole under a fixed per-session key.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion persists the cart only when the stored version still
	// matches expectedVersion, bumping cart.Version on success. Returns
	// false when a concurrent write won the race.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the cart for the given session.
	Delete(ctx context.Context, sessionID string) error
}

// ProductRepository defines the persistence operations for the product
// catalog.
type ProductRepository interface {
	Get(ctx context.Context, id string) (*domain.Product, error)

	// List returns products, optionally filtered by category (empty string
	// means all), sorted by name.
	List(ctx context.Context, category string) ([]domain.Product, error)

	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// CounterRepository defines transactional increments for storefront counters
// (page visits, cart adds).
type CounterRepository interface {
	// Increment atomically adds delta to the named counter, creating it
	// when missing.
	Increment(ctx context.Context, name string, delta int64) error

	// Get returns the current value of the named counter, 0 when missing.
	Get(ctx context.Context, name string) (int64, error)

	// All returns every counter keyed by name.
	All(ctx context.Context) (map[string]int64, error)
}
