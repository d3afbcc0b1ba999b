package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// New validates cfg and builds the matching provider.
func New(ctx context.Context, cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) (Summarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer config: %w", err)
	}
	cfg = cfg.normalized()

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("initializing summarizer",
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.Model),
		slog.Int("min_length", cfg.MinLength),
		slog.Int("max_length", cfg.MaxLength),
		slog.Int("max_input_chars", cfg.MaxInputChars),
		slog.Int("max_attempts", cfg.MaxAttempts))

	switch cfg.Provider {
	case ProviderHuggingFace:
		return NewHuggingFace(cfg, &http.Client{}, metrics, logger), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg, metrics, logger), nil
	case ProviderClaude:
		return NewClaude(cfg, metrics, logger), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg, metrics, logger)
	case ProviderNoop:
		return NewNoOp(cfg, metrics, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// NewLoader returns a Loader that builds the provider described by cfg.
func NewLoader(cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) Loader {
	return func(ctx context.Context) (Summarizer, error) {
		return New(ctx, cfg, metrics, logger)
	}
}
