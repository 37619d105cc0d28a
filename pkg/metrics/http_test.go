package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/api/v1/products", http.StatusOK, 5*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/products", http.StatusOK, 7*time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products", "200"))
	assert.Equal(t, 2.0, count)
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/missing", "404"))
	assert.Equal(t, 1.0, count)
}

func TestNilRegistererIsNoop(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics(nil)
	// Must not panic.
	m.Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}
