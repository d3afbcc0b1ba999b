// Package digest exposes the PDF digest pipeline over HTTP: an HTML upload page and
// JSON endpoints for full digests and extraction-only previews.
package digest

import (
	"net/http"
	"time"

	hhttp "pdf-digest/internal/handler/http"
)

// Options configures Register.
type Options struct {
	MaxUploadBytes int64
	MinWords       int
	MaxWords       int

	// RequestTimeout bounds every upload route. Zero disables it. The page answers an
	// expired request with its error banner, the API with a JSON 504.
	RequestTimeout time.Duration
}

// Register mounts the page and API routes on mux.
func Register(mux *http.ServeMux, svc Pipeline, opts Options) {
	page := PageHandler{
		Svc:            svc,
		MaxUploadBytes: opts.MaxUploadBytes,
		MinWords:       opts.MinWords,
		MaxWords:       opts.MaxWords,
	}
	apiTimeout := hhttp.Timeout(opts.RequestTimeout)
	pageTimeout := hhttp.TimeoutWith(opts.RequestTimeout, http.HandlerFunc(page.timedOut))

	mux.Handle("GET /{$}", page)
	mux.Handle("POST /{$}", pageTimeout(page))
	mux.Handle("POST /api/digest", apiTimeout(NewDigestAPI(svc, opts.MaxUploadBytes)))
	mux.Handle("POST /api/extract", apiTimeout(NewExtractAPI(svc, opts.MaxUploadBytes)))
}
