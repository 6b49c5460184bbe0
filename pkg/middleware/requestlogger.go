package middleware

import (
	"log/slog"
	"net/http"

	"github.com/refh96/catalogo-rancho-sub000/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// session_id, trace_id, and span_id, and stores it in the request context via
// logger.NewContext. Downstream handlers retrieve it with logger.FromContext.
//
// Mount AFTER RequestLogging (which sets correlation_id) and Tracing (which
// sets the span context).
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if sid := r.Header.Get("X-Session-ID"); sid != "" {
				ctx = logger.WithSessionID(ctx, sid)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
