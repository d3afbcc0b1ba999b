package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pdf-digest/internal/observability/tracing"
	"pdf-digest/internal/resilience/circuitbreaker"
	"pdf-digest/internal/resilience/retry"
	"pdf-digest/internal/utils/text"
)

// callFunc performs one raw model call on already truncated input.
type callFunc func(ctx context.Context, input string) (string, error)

// guard is the call path shared by all providers:
// truncate, rate-limit, circuit-break, retry, measure.
type guard struct {
	cfg             Config
	limiter         *RateLimiter
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	metricsRecorder SummaryMetricsRecorder
	logger          *slog.Logger
}

func newGuard(cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) *guard {
	if metrics == nil {
		metrics = NewPrometheusSummaryMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	retryCfg := retry.NoRetryConfig()
	if cfg.MaxAttempts > 1 {
		retryCfg = retry.ModelAPIConfig(cfg.MaxAttempts)
	}
	logger = logger.With(slog.String("provider", cfg.Provider), slog.String("model", cfg.Model))
	cbCfg := circuitbreaker.SummarizerConfig(cfg.Provider)
	cbCfg.Logger = logger
	return &guard{
		cfg:             cfg,
		limiter:         NewRateLimiter(cfg.RatePerSec, cfg.Burst),
		circuitBreaker:  circuitbreaker.New(cbCfg),
		retryConfig:     retryCfg,
		metricsRecorder: metrics,
		logger:          logger,
	}
}

// Info implements Describer for every provider embedding guard.
func (g *guard) Info() Info {
	return Info{Provider: g.cfg.Provider, Model: g.cfg.Model}
}

func (g *guard) run(ctx context.Context, input string, call callFunc) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "summarizer.summarize",
		attribute.String("summarizer.provider", g.cfg.Provider),
		attribute.String("summarizer.model", g.cfg.Model))
	defer span.End()

	truncated, cut := text.TruncateRunes(input, g.cfg.MaxInputChars)
	if cut {
		g.logger.WarnContext(ctx, "input truncated before summarization",
			slog.Int("original_runes", text.CountRunes(input)),
			slog.Int("max_input_chars", g.cfg.MaxInputChars))
	}
	span.SetAttributes(
		attribute.Int("summarizer.input_runes", text.CountRunes(truncated)),
		attribute.Bool("summarizer.truncated", cut))

	summary, err := g.execute(ctx, truncated, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summarization failed")
		return "", err
	}

	words := text.CountWords(summary)
	span.SetAttributes(attribute.Int("summarizer.summary_words", words))
	return summary, nil
}

func (g *guard) execute(ctx context.Context, input string, call callFunc) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		g.metricsRecorder.RecordInvocation(g.cfg.Provider, StatusRejected)
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	g.logger.InfoContext(ctx, "starting summarization",
		slog.Int("input_runes", text.CountRunes(input)),
		slog.Int("min_length", g.cfg.MinLength),
		slog.Int("max_length", g.cfg.MaxLength))

	start := time.Now()
	summary, err := retry.Do(ctx, g.retryConfig, func() (string, error) {
		res, err := g.circuitBreaker.Execute(func() (interface{}, error) {
			return call(ctx, input)
		})
		if err != nil {
			return "", err
		}
		return res.(string), nil
	})
	duration := time.Since(start)

	if err != nil {
		if circuitbreaker.IsRejection(err) {
			g.metricsRecorder.RecordInvocation(g.cfg.Provider, StatusRejected)
			g.logger.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
				slog.String("state", g.circuitBreaker.State().String()))
			return "", fmt.Errorf("%s unavailable: %w", g.cfg.Provider, err)
		}
		g.metricsRecorder.RecordInvocation(g.cfg.Provider, StatusError)
		g.logger.ErrorContext(ctx, "summarization failed",
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("%s summarize: %w", g.cfg.Provider, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		g.metricsRecorder.RecordInvocation(g.cfg.Provider, StatusError)
		return "", fmt.Errorf("%s summarize: %w", g.cfg.Provider, ErrEmptySummary)
	}

	words := text.CountWords(summary)
	withinRange := words >= g.cfg.MinLength && words <= g.cfg.MaxLength

	g.logger.InfoContext(ctx, "summarization completed",
		slog.Int("summary_words", words),
		slog.Bool("within_range", withinRange),
		slog.Duration("duration", duration))
	if !withinRange {
		g.logger.DebugContext(ctx, "summary length outside requested range",
			slog.Int("summary_words", words),
			slog.Int("min_length", g.cfg.MinLength),
			slog.Int("max_length", g.cfg.MaxLength))
	}

	g.metricsRecorder.RecordInvocation(g.cfg.Provider, StatusSuccess)
	g.metricsRecorder.RecordWords(words)
	g.metricsRecorder.RecordDuration(duration)
	g.metricsRecorder.RecordCompliance(withinRange)
	if !withinRange {
		g.metricsRecorder.RecordOutOfRange()
	}

	return summary, nil
}

// ErrEmptySummary is returned when a backend answers without any text.
var ErrEmptySummary = errors.New("model returned an empty summary")

// BreakerState reports the circuit breaker state ("closed", "half-open", "open").
func (g *guard) BreakerState() string {
	return g.circuitBreaker.State().String()
}
