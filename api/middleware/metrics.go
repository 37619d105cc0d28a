package middleware

import (
	"net/http"

	"github.com/suvai/freshmart-backend/pkg/metrics"
)

// Metrics instruments every request with the HTTP counter and histogram.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return m.Middleware(next)
	}
}
