package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

const productsCollection = "products"

// ProductRepository implements repository.ProductRepository on Firestore.
// Each product is a document in the products collection keyed by its ID.
type ProductRepository struct {
	client *gfs.Client
}

// NewProductRepository creates a new Firestore-backed product repository.
func NewProductRepository(client *gfs.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) col() *gfs.CollectionRef {
	return r.client.Collection(productsCollection)
}

// Get retrieves a product by ID.
func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("firestore get product: %w", err)
	}

	return docToProduct(snap)
}

// List returns products sorted by name, optionally filtered by category.
// Sorting happens in memory so the collection needs no composite index.
func (r *ProductRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	q := r.col().Query
	if category != "" {
		q = q.Where("category", "==", category)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	products := make([]domain.Product, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list products: %w", err)
		}

		p, err := docToProduct(snap)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// Create inserts a new product, assigning an ID when none is given.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.col().Doc(p.ID).Create(ctx, productToDoc(p))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return apperrors.Conflict(fmt.Sprintf("product %s already exists", p.ID))
		}
		return fmt.Errorf("firestore create product: %w", err)
	}

	return nil
}

// Update overwrites an existing product document.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	docRef := r.col().Doc(p.ID)

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return apperrors.NotFound("product", p.ID)
		}
		return fmt.Errorf("firestore get product: %w", err)
	}

	existing, err := docToProduct(snap)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, productToDoc(p)); err != nil {
		return fmt.Errorf("firestore update product: %w", err)
	}

	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	docRef := r.col().Doc(id)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return apperrors.NotFound("product", id)
		}
		return fmt.Errorf("firestore get product: %w", err)
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete product: %w", err)
	}

	return nil
}

func productToDoc(p *domain.Product) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"imageUrl":    p.ImageURL,
		"barcode":     p.Barcode,
		"inStock":     p.InStock,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

func docToProduct(snap *gfs.DocumentSnapshot) (*domain.Product, error) {
	raw := snap.Data()

	p := domain.Product{ID: snap.Ref.ID}
	p.Name, _ = raw["name"].(string)
	p.Description, _ = raw["description"].(string)
	p.Category, _ = raw["category"].(string)
	p.ImageURL, _ = raw["imageUrl"].(string)
	p.Barcode, _ = raw["barcode"].(string)
	p.InStock, _ = raw["inStock"].(bool)

	switch v := raw["price"].(type) {
	case int64:
		p.Price = v
	case float64:
		p.Price = int64(v)
	default:
		return nil, fmt.Errorf("product %s: unexpected price type %T", p.ID, raw["price"])
	}

	if t, ok := raw["createdAt"].(time.Time); ok {
		p.CreatedAt = t
	}
	if t, ok := raw["updatedAt"].(time.Time); ok {
		p.UpdatedAt = t
	}

	return &p, nil
}
