package http

import (
	"log/slog"
	"net/http"

	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	"github.com/refh96/catalogo-rancho-sub000/pkg/httputil"
	"github.com/refh96/catalogo-rancho-sub000/pkg/validator"
)

// CheckoutHandler handles HTTP requests for order submission.
type CheckoutHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.OrderService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitOrderRequest is the JSON request body for submitting an order.
type SubmitOrderRequest struct {
	DeliveryMode  string `json:"delivery_mode" validate:"required,oneof=delivery pickup"`
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address"`
	Comuna        string `json:"comuna"`
	PaymentMethod string `json:"payment_method" validate:"required"`
	Notes         string `json:"notes"`
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	var req SubmitOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.SubmitOrderInput{
		DeliveryMode:  req.DeliveryMode,
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Comuna:        req.Comuna,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	order, err := h.service.Submit(r.Context(), sessionID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}
