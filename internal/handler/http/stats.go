package http

import (
	"log/slog"
	"net/http"

	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	"github.com/refh96/catalogo-rancho-sub000/pkg/httputil"
)

// StatsHandler handles HTTP requests for storefront counters.
type StatsHandler struct {
	service *service.StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats HTTP handler.
func NewStatsHandler(svc *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: svc,
		logger:  logger,
	}
}

// RecordVisit handles POST /api/v1/stats/visit
func (h *StatsHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RecordVisit(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "recorded"}})
}

// Stats handles GET /api/v1/admin/stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}
