package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/metrics"
)

// CountRequests records one HTTPRequestsTotal increment per request,
// labeled with the chi route pattern and the status class (2xx, 4xx, ...).
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		statusClass := fmt.Sprintf("%dxx", ww.Status()/100)
		metrics.HTTPRequestsTotal.WithLabelValues(pattern, statusClass).Inc()
	})
}
