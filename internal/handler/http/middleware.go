// Package http holds the cross-cutting HTTP layer of the digest server: access logging,
// panic recovery, body limits, security headers, per-request timeouts, Prometheus metrics and the
// health, readiness and liveness probes. Route handlers live in subpackages.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"pdf-digest/internal/handler/http/requestid"
	"pdf-digest/internal/handler/http/respond"
	"pdf-digest/internal/handler/http/responsewriter"
	"pdf-digest/internal/observability/logging"
)

// Logging logs one line per request and stores a request-scoped logger, carrying
// request_id and trace_id, in the request context for downstream handlers.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := responsewriter.Wrap(w)

			reqID := requestid.FromContext(r.Context())
			traceID := ""
			if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}

			reqLogger := logger
			if reqID != "" {
				reqLogger = reqLogger.With(slog.String("request_id", reqID))
			}
			if traceID != "" {
				reqLogger = reqLogger.With(slog.String("trace_id", traceID))
			}
			r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if wrapped.StatusCode() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			reqLogger.LogAttrs(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.Int64("request_bytes", r.ContentLength),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int64("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
			)
		})
	}
}

// Recover turns a handler panic into a 500 response and an error log with the stack.
// http.ErrAbortHandler is re-panicked so the server can abort the connection.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := responsewriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				if !wrapped.Written() {
					respond.JSON(wrapped, http.StatusInternalServerError,
						respond.ErrorBody{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(wrapped, r)
		})
	}
}

// LimitRequestBody caps the request body at maxBytes. Reads past the limit fail with
// *http.MaxBytesError.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
