package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countersCollection = "counters"

// CounterRepository implements repository.CounterRepository on Firestore.
// Each counter is a single document {value: int64} in the counters
// collection, updated with transactional increments so concurrent bumps
// never lose writes.
type CounterRepository struct {
	client *gfs.Client
}

// NewCounterRepository creates a new Firestore-backed counter repository.
func NewCounterRepository(client *gfs.Client) *CounterRepository {
	return &CounterRepository{client: client}
}

func (r *CounterRepository) col() *gfs.CollectionRef {
	return r.client.Collection(countersCollection)
}

// Increment atomically adds delta to the named counter, creating the
// document on first use.
func (r *CounterRepository) Increment(ctx context.Context, name string, delta int64) error {
	docRef := r.col().Doc(name)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		_, err := tx.Get(docRef)
		if status.Code(err) == codes.NotFound {
			return tx.Set(docRef, map[string]any{"value": delta})
		}
		if err != nil {
			return err
		}
		return tx.Update(docRef, []gfs.Update{
			{Path: "value", Value: gfs.Increment(delta)},
		})
	})
	if err != nil {
		return fmt.Errorf("firestore increment counter %s: %w", name, err)
	}

	return nil
}

// Get returns the current value of the named counter, 0 when missing.
func (r *CounterRepository) Get(ctx context.Context, name string) (int64, error) {
	snap, err := r.col().Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("firestore get counter %s: %w", name, err)
	}

	return counterValue(snap.Data())
}

// All returns every counter keyed by document ID.
func (r *CounterRepository) All(ctx context.Context) (map[string]int64, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	counters := make(map[string]int64)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list counters: %w", err)
		}

		v, err := counterValue(snap.Data())
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", snap.Ref.ID, err)
		}
		counters[snap.Ref.ID] = v
	}

	return counters, nil
}

func counterValue(raw map[string]any) (int64, error) {
	switch v := raw["value"].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected counter value type %T", raw["value"])
	}
}
