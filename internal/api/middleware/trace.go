// Package middleware provides the HTTP middleware for the API: trace IDs,
// JWT authentication and the admin gate.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/visitly/visitly/internal/api/shared"
)

// NewTraceMiddleware attaches a trace ID to every request context and
// echoes it in the X-Trace-ID response header.
func NewTraceMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			w.Header().Set("X-Trace-ID", shared.GetTraceID(ctx))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
