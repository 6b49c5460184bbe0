package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	"github.com/refh96/catalogo-rancho-sub000/internal/event"
	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	apperrors "github.com/refh96/catalogo-rancho-sub000/pkg/errors"
	"github.com/refh96/catalogo-rancho-sub000/pkg/httputil"
	pkgkafka "github.com/refh96/catalogo-rancho-sub000/pkg/kafka"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockCounterRepository struct {
	mock.Mock
}

func (m *mockCounterRepository) Increment(ctx context.Context, name string, delta int64) error {
	args := m.Called(ctx, name, delta)
	return args.Error(0)
}

func (m *mockCounterRepository) Get(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCounterRepository) All(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testCartService(repo *mockCartRepository, counters *mockCounterRepository) *service.CartService {
	return service.NewCartService(repo, counters, testEventProducer(), testLogger())
}

// setupCartRouter creates a chi router matching the production route layout,
// including the SessionIDFromHeader and ContentTypeJSON middleware so header
// behavior is tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Put("/details", handler.SetCheckoutDetails)

		r.Post("/items", handler.AddItem)
		r.Put("/items/{productId}", handler.SetQuantity)
		r.Delete("/items/{productId}", handler.RemoveItem)
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func storedCart(sessionID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: sessionID,
		Items: []domain.LineItem{
			{ProductID: "prod-1", Name: "Juguete Mordedor", UnitPrice: 4990, Quantity: 1},
		},
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestGetCart_MissingSessionHeader(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestGetCart_ReturnsStoredCart(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	repo.On("Get", mock.Anything, "sess-1").Return(storedCart("sess-1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "sess-1", data["session_id"])
	assert.Len(t, data["items"], 1)
}

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	counters := new(mockCounterRepository)
	handler := NewCartHandler(testCartService(repo, counters), testLogger())
	router := setupCartRouter(handler)

	repo.On("Get", mock.Anything, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 0).Return(true, nil)
	counters.On("Increment", mock.Anything, "cart_adds", int64(1)).Return(nil)

	body := `{"product_id":"prod-9","name":"Shampoo Hipoalergénico","unit_price":6990,"category":"higiene"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data := resp.Data.(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, "prod-9", first["product_id"])
	assert.Equal(t, float64(1), first["quantity"])
}

func TestAddItem_ValidationError(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	body := `{"unit_price":6990}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "ProductID")
}

func TestAddItem_WrongContentType(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("product_id=prod-1"))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSetQuantity_RemovesWhenZero(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	repo.On("Get", mock.Anything, "sess-1").Return(storedCart("sess-1"), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 2).Return(true, nil)

	body := `{"quantity":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/prod-1", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Empty(t, data["items"])
}

func TestRemoveItem_Conflict(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	repo.On("Get", mock.Anything, "sess-1").Return(storedCart("sess-1"), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 2).Return(false, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/prod-1", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestSetCheckoutDetails_Success(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	repo.On("Get", mock.Anything, "sess-1").Return(storedCart("sess-1"), nil)
	repo.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.Cart"), 2).Return(true, nil)

	body := `{"delivery_mode":"delivery","name":"Carolina Soto","phone":"+56911112222","address":"Av. Colón 1234","comuna":"Hualpén","payment_method":"transferencia"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/details", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "delivery", data["delivery_mode"])
}

func TestSetCheckoutDetails_InvalidMode(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	body := `{"delivery_mode":"drone"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/details", bytes.NewBufferString(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	handler := NewCartHandler(testCartService(repo, new(mockCounterRepository)), testLogger())
	router := setupCartRouter(handler)

	repo.On("Delete", mock.Anything, "sess-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
