package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdf-digest/internal/handler/http/pathutil"
	"pdf-digest/internal/handler/http/responsewriter"
)

// HTTPMetrics holds the per-route HTTP collectors. Every label value passes through
// pathutil.NormalizePath, so scanners probing random paths cannot grow the series count.
type HTTPMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	inFlight  *prometheus.GaugeVec
	bodyBytes *prometheus.HistogramVec
	respBytes *prometheus.HistogramVec
}

// NewHTTPMetrics registers the collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		// Upload routes wait on the model, so the top bucket is two minutes.
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"method", "route", "code"}),
		inFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served",
		}, []string{"route"}),
		// 1 KiB to 256 MiB covers every accepted upload size.
		bodyBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_body_bytes",
			Help:    "Declared request body size",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}, []string{"route"}),
		respBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_body_bytes",
			Help:    "Bytes written in the response body",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		}, []string{"route"}),
	}
}

// Middleware observes next.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := pathutil.NormalizePath(r.URL.Path)

		gauge := m.inFlight.WithLabelValues(route)
		gauge.Inc()
		defer gauge.Dec()

		if r.ContentLength > 0 {
			m.bodyBytes.WithLabelValues(route).Observe(float64(r.ContentLength))
		}

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start).Seconds()

		code := strconv.Itoa(rw.StatusCode())
		m.requests.WithLabelValues(r.Method, route, code).Inc()
		m.latency.WithLabelValues(r.Method, route, code).Observe(elapsed)
		m.respBytes.WithLabelValues(route).Observe(float64(rw.BytesWritten()))
	})
}

var defaultHTTPMetrics = NewHTTPMetrics(prometheus.DefaultRegisterer)

// MetricsMiddleware observes requests into the default registry.
func MetricsMiddleware(next http.Handler) http.Handler {
	return defaultHTTPMetrics.Middleware(next)
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
