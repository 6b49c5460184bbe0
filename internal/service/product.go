package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	"github.com/refh96/catalogo-rancho-sub000/internal/repository"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

// ProductInput holds the admin-facing fields for creating or updating a
// catalog entry.
type ProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	Category    string `json:"category" validate:"required"`
	ImageURL    string `json:"image_url"`
	Barcode     string `json:"barcode"`
	InStock     bool   `json:"in_stock"`
}

// ProductService implements the business logic for the product catalog.
type ProductService struct {
	repo   repository.ProductRepository
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// List returns catalog entries, optionally filtered by category.
func (s *ProductService) List(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single catalog entry.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// Create adds a new catalog entry.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", product.Category),
	)

	return product, nil
}

// Update overwrites an existing catalog entry.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	product.ID = id
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id),
	)

	return product, nil
}

// Delete removes a catalog entry.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	if strings.TrimSpace(input.Category) == "" {
		return apperrors.InvalidInput("category is required")
	}
	return nil
}

func productFromInput(input ProductInput) *domain.Product {
	return &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Barcode:     strings.TrimSpace(input.Barcode),
		InStock:     input.InStock,
	}
}
