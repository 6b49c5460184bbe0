package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis. Each cart
// lives whole under cart:<sessionID> with a TTL so abandoned carts expire.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cart by session ID.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// SaveIfVersion persists the cart only if the stored version still matches
// expectedVersion. The WATCH/MULTI round trip makes the check-and-set atomic,
// so a mutation in flight cannot be clobbered by a stale snapshot arriving
// late. On success cart.Version is bumped to expectedVersion+1.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := keyPrefix + cart.SessionID
	saved := false

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// No stored cart: only a fresh cart (version 0) may claim the key.
			if expectedVersion != 0 {
				return nil
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var current domain.Cart
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal stored cart: %w", err)
			}
			if current.Version != expectedVersion {
				return nil
			}
		}

		next := *cart
		next.Version = expectedVersion + 1
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		cart.Version = next.Version
		saved = true
		return nil
	}

	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Another writer touched the key between WATCH and EXEC.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis save cart: %w", err)
	}

	return saved, nil
}

// Delete removes a cart by session ID.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
