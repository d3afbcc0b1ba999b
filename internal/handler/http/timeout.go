package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pdf-digest/internal/handler/http/respond"
)

// Timeout bounds the handler at d. The request context is canceled at the deadline and,
// if the handler has not started its response yet, the client gets 504 with a JSON
// error. Writes after the deadline fail with http.ErrHandlerTimeout.
//
// The handler writes into a private header map that is copied out on WriteHeader, so the
// late goroutine never touches the real writer.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return TimeoutWith(d, nil)
}

// TimeoutWith is Timeout with onTimeout writing the expired response instead of the
// JSON 504. It gets the real writer and the request whose context has expired.
func TimeoutWith(d time.Duration, onTimeout http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{w: w, h: make(http.Header)}
			done := make(chan struct{})
			panicChan := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicChan:
				panic(p)
			case <-done:
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				switch {
				case tw.wroteHeader:
				case onTimeout != nil:
					onTimeout.ServeHTTP(w, r)
				default:
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_ = json.NewEncoder(w).Encode(respond.ErrorBody{Error: "request timeout"})
				}
			}
		})
	}
}

type timeoutWriter struct {
	w           http.ResponseWriter
	h           http.Header
	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = vv
	}
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}
