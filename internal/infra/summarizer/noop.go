package summarizer

import (
	"context"
	"log/slog"

	"pdf-digest/internal/utils/text"
)

// NoOp "summarizes" by keeping the first MaxLength words of the input. It needs no
// model and is used for development, the CLI without credentials, and tests.
type NoOp struct {
	*guard
}

// NewNoOp creates a NoOp summarizer.
func NewNoOp(cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) *NoOp {
	cfg.Provider = ProviderNoop
	cfg.Model = ""
	return &NoOp{guard: newGuard(cfg.normalized(), metrics, logger)}
}

// Summarize implements Summarizer.
func (n *NoOp) Summarize(ctx context.Context, input string) (string, error) {
	return n.run(ctx, input, func(_ context.Context, in string) (string, error) {
		return text.FirstWords(in, n.cfg.MaxLength), nil
	})
}
