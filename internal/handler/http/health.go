package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"pdf-digest/internal/handler/http/respond"
	"pdf-digest/internal/infra/summarizer"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ModelStatus reports the state of the shared model handle without loading it.
type ModelStatus interface {
	Status() summarizer.Status
}

// HealthHandler reports process health. The model check is informational: an unloaded
// model is normal until the first request, and an open breaker degrades but does not
// fail the process.
type HealthHandler struct {
	Model   ModelStatus
	Version string
	Started time.Time
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{}
	status := "healthy"

	if h.Model != nil {
		mc := checkModel(h.Model.Status())
		checks["model"] = mc
		if mc.Status == "degraded" {
			status = "degraded"
		}
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	if !h.Started.IsZero() {
		resp.Uptime = time.Since(h.Started).Truncate(time.Second).String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

func checkModel(st summarizer.Status) CheckStatus {
	if !st.Loaded {
		return CheckStatus{Status: "healthy", Message: "not loaded yet"}
	}
	details := map[string]any{
		"provider":        st.Provider,
		"model":           st.Model,
		"circuit_breaker": st.Breaker,
	}
	if st.Breaker == "open" {
		return CheckStatus{Status: "degraded", Message: "circuit breaker open", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// Readiness loads the model if needed and reports the failure.
type Readiness interface {
	Ready(ctx context.Context) error
}

// ReadyHandler answers readiness probes: 200 once the model handle can be acquired,
// 503 otherwise. A failed load is retried on the next probe.
type ReadyHandler struct {
	Model   Readiness
	Timeout time.Duration
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if h.Model == nil {
		http.Error(w, "model not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.Model.Ready(ctx); err != nil {
		slog.Warn("readiness check failed", slog.String("error", respond.SanitizeError(err)))
		http.Error(w, "model not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler always answers 200 while the process can serve requests.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
