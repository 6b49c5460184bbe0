package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
)

// --- Mock repository ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestProductService(repo *mockProductRepository) *ProductService {
	return NewProductService(repo, newTestLogger())
}

func sampleProductInput() ProductInput {
	return ProductInput{
		Name:     "Correa Retráctil",
		Price:    12990,
		Category: "accesorios",
		InStock:  true,
	}
}

// --- Tests ---

func TestProductList_PassesCategory(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)
	ctx := context.Background()

	repo.On("List", ctx, "perros").Return([]domain.Product{{ID: "p1", Name: "Correa"}}, nil)

	products, err := svc.List(ctx, " perros ")

	require.NoError(t, err)
	assert.Len(t, products, 1)
	repo.AssertExpectations(t)
}

func TestProductGet_MissingID(t *testing.T) {
	svc := newTestProductService(new(mockProductRepository))

	product, err := svc.Get(context.Background(), "")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestProductCreate_Valid(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.Create(ctx, sampleProductInput())

	require.NoError(t, err)
	assert.Equal(t, "Correa Retráctil", product.Name)
	assert.Equal(t, int64(12990), product.Price)
	repo.AssertExpectations(t)
}

func TestProductCreate_ValidationFailures(t *testing.T) {
	svc := newTestProductService(new(mockProductRepository))
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = " " }},
		{"negative price", func(in *ProductInput) { in.Price = -100 }},
		{"missing category", func(in *ProductInput) { in.Category = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := sampleProductInput()
			tc.mutate(&input)

			product, err := svc.Create(ctx, input)

			assert.Nil(t, product)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestProductUpdate_SetsID(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Update", ctx, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == "p1"
	})).Return(nil)

	product, err := svc.Update(ctx, "p1", sampleProductInput())

	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	repo.AssertExpectations(t)
}

func TestProductDelete_NotFoundPropagates(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestProductService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "ghost").Return(apperrors.NotFound("product", "ghost"))

	err := svc.Delete(ctx, "ghost")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStats_RecordVisit(t *testing.T) {
	counters := new(mockCounterRepository)
	svc := NewStatsService(counters, newTestLogger())
	ctx := context.Background()

	counters.On("Increment", ctx, "visits", int64(1)).Return(nil)

	require.NoError(t, svc.RecordVisit(ctx))
	counters.AssertExpectations(t)
}

func TestStats_All(t *testing.T) {
	counters := new(mockCounterRepository)
	svc := NewStatsService(counters, newTestLogger())
	ctx := context.Background()

	counters.On("All", ctx).Return(map[string]int64{"visits": 42, "cart_adds": 7}, nil)

	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(42), stats["visits"])
	assert.Equal(t, int64(7), stats["cart_adds"])
}
