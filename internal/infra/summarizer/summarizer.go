// Package summarizer turns extracted document text into a short abstract.
//
// Every provider (Hugging Face Inference API, OpenAI-compatible chat, Claude, Gemini,
// and a local word-truncating NoOp) shares the same guard: input truncation,
// a token-bucket rate limiter, a circuit breaker, optional retries, Prometheus
// metrics and an OpenTelemetry span per call.
package summarizer

import "context"

// Summarizer produces a summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Info names the backend behind a Summarizer.
type Info struct {
	Provider string
	Model    string
}

// Describer is implemented by summarizers that can report their backend.
type Describer interface {
	Info() Info
}

// Describe returns the Info of s, or a zero Info when s does not implement Describer.
func Describe(s Summarizer) Info {
	if d, ok := s.(Describer); ok {
		return d.Info()
	}
	return Info{}
}

// Status is a point-in-time view of a model handle, for health endpoints.
type Status struct {
	Loaded   bool   `json:"loaded"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Breaker  string `json:"circuit_breaker,omitempty"`
}

type breakerReporter interface {
	BreakerState() string
}
