// Command api serves the PDF digest web page and JSON API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pdf-digest/internal/config"
	hhttp "pdf-digest/internal/handler/http"
	hdigest "pdf-digest/internal/handler/http/digest"
	"pdf-digest/internal/handler/http/requestid"
	"pdf-digest/internal/infra/pdf"
	"pdf-digest/internal/infra/summarizer"
	"pdf-digest/internal/observability/logging"
	"pdf-digest/internal/observability/tracing"
	digestUC "pdf-digest/internal/usecase/digest"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger().Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: logging.Format(cfg.Log.Format)})
	slog.SetDefault(logger)

	shutdownTracing := initTracing(logger, cfg.Tracing)

	version := getVersion()
	model := summarizer.NewLazy(summarizer.NewLoader(cfg.Summarizer, summarizer.NewPrometheusSummaryMetrics(), logger))
	svc := digestUC.NewService(pdf.NewExtractor(logger), model, cfg.Pipeline.MaxChunkSize, logger)

	handler := setupServer(logger, cfg, svc, model, version)
	runServer(logger, cfg.Server, handler, version)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
}

// initTracing installs the tracer provider when enabled and returns its shutdown func.
func initTracing(logger *slog.Logger, cfg config.TracingConfig) func(context.Context) error {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }
	}
	logger.Info("tracing enabled", slog.Float64("sample_ratio", cfg.SampleRatio))
	return tracing.InitProvider(cfg.SampleRatio)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer registers all routes and wraps them with the middleware chain.
// Order, outermost first: Request ID → Tracing → Recovery → Logging → Security Headers → Body Limit → Metrics.
func setupServer(logger *slog.Logger, cfg config.Config, svc *digestUC.Service, model *summarizer.Lazy, version string) http.Handler {
	mux := http.NewServeMux()

	hdigest.Register(mux, svc, hdigest.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		MinWords:       cfg.Summarizer.MinLength,
		MaxWords:       cfg.Summarizer.MaxLength,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	mux.Handle("GET /health", &hhttp.HealthHandler{Model: model, Version: version, Started: time.Now()})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Model: model})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.SecurityHeaders(hhttp.SecurityConfig{
			CSPEnabled:    cfg.Server.CSPEnabled,
			CSPReportOnly: cfg.Server.CSPReportOnly,
		}),
		hhttp.LimitRequestBody(hdigest.BodyLimit(cfg.Server.MaxUploadBytes)),
		hhttp.MetricsMiddleware,
	)
}

// runServer starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts down gracefully.
func runServer(logger *slog.Logger, cfg config.ServerConfig, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version),
			slog.Int64("max_upload_bytes", cfg.MaxUploadBytes),
			slog.Duration("request_timeout", cfg.RequestTimeout))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
