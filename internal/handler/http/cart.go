package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refh96/catalogo-rancho-sub000/internal/domain"
	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	"github.com/refh96/catalogo-rancho-sub000/pkg/httputil"
	"github.com/refh96/catalogo-rancho-sub000/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	ImageURL  string `json:"image_url"`
	Category  string `json:"category"`
}

// SetQuantityRequest is the JSON request body for setting a line quantity.
// Any quantity below one removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutDetailsRequest is the JSON request body for storing the delivery
// mode and buyer details on the cart.
type CheckoutDetailsRequest struct {
	DeliveryMode  string `json:"delivery_mode" validate:"required,oneof=delivery pickup"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Comuna        string `json:"comuna"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.AddItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
	}

	cart, err := h.service.AddItem(r.Context(), sessionID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// SetQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	productID := chi.URLParam(r, "productId")

	var req SetQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	productID := chi.URLParam(r, "productId")

	cart, err := h.service.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// SetCheckoutDetails handles PUT /api/v1/cart/details
func (h *CartHandler) SetCheckoutDetails(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	var req CheckoutDetailsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.CheckoutDetailsInput{
		DeliveryMode: req.DeliveryMode,
		Buyer: domain.Buyer{
			Name:          req.Name,
			Phone:         req.Phone,
			Address:       req.Address,
			Comuna:        req.Comuna,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		},
	}

	cart, err := h.service.SetCheckoutDetails(r.Context(), sessionID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
