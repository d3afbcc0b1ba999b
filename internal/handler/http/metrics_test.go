package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *HTTPMetrics {
	t.Helper()
	return NewHTTPMetrics(prometheus.NewRegistry())
}

func TestMetricsMiddleware_CountsByRouteAndStatus(t *testing.T) {
	m := newTestMetrics(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodPost, "/api/digest", http.StatusOK},
		{http.MethodPost, "/api/digest?x=1", http.StatusUnsupportedMediaType},
		{http.MethodPost, "/api/extract/", http.StatusUnprocessableEntity},
		{http.MethodGet, "/wp-admin/setup.php", http.StatusNotFound},
		{http.MethodGet, "/.env", http.StatusNotFound},
	}

	for _, tt := range tests {
		status := tt.status
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		require.Equal(t, tt.status, rec.Code)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/digest", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/digest", "415")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/extract", "422")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "other", "404")),
		"unknown paths share one label")
	assert.Equal(t, 5, testutil.CollectAndCount(m.requests))
	assert.Equal(t, 5, testutil.CollectAndCount(m.latency))
}

func TestMetricsMiddleware_ImplicitOK(t *testing.T) {
	m := newTestMetrics(t)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("alive"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/live", "200")))
}

func TestMetricsMiddleware_Sizes(t *testing.T) {
	m := newTestMetrics(t)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"summary":"ok"}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/digest", strings.NewReader(strings.Repeat("x", 2048)))
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.bodyBytes), "bodyless requests are not observed")
	assert.Equal(t, 2, testutil.CollectAndCount(m.respBytes))
}

func TestMetricsMiddleware_InFlightPerRoute(t *testing.T) {
	m := newTestMetrics(t)

	var during float64
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(m.inFlight.WithLabelValues("/api/digest"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/digest", nil))

	assert.Equal(t, 1.0, during)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight.WithLabelValues("/api/digest")))
}

func TestMetricsHandler(t *testing.T) {
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{code="200",method="GET",route="/"}`)
}
