package http

import (
	"net/http"

	"pdf-digest/pkg/security/csp"
)

// SecurityConfig controls the security headers middleware.
type SecurityConfig struct {
	// CSPEnabled toggles the Content-Security-Policy header. The other headers are always sent.
	CSPEnabled bool
	// CSPReportOnly sends the policy as Content-Security-Policy-Report-Only.
	CSPReportOnly bool
}

// SecurityHeaders sets a Content-Security-Policy and the usual hardening headers.
// The upload page at "/" gets a policy that allows its inline styles and form; every
// other route gets a policy that allows nothing.
func SecurityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	page := csp.PagePolicy().ReportOnly(cfg.CSPReportOnly)
	api := csp.APIPolicy().ReportOnly(cfg.CSPReportOnly)
	pageValue, apiValue := page.Build(), api.Build()
	headerName := page.HeaderName()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if cfg.CSPEnabled {
				if r.URL.Path == "/" {
					h.Set(headerName, pageValue)
				} else {
					h.Set(headerName, apiValue)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
