// Package config assembles the runtime configuration of the digest service and CLI.
//
// Values are resolved in three layers: built-in defaults, an optional YAML file named by
// DIGEST_CONFIG_FILE, and environment variables. Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pdf-digest/internal/infra/summarizer"
	"pdf-digest/internal/usecase/digest"
	envconfig "pdf-digest/pkg/config"
)

// FileEnv names the variable holding the optional YAML overlay path.
const FileEnv = "DIGEST_CONFIG_FILE"

const (
	DefaultAddr              = ":8080"
	DefaultMaxUploadBytes    = 32 << 20
	DefaultRequestTimeout    = 120 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server     ServerConfig
	Pipeline   PipelineConfig
	Summarizer summarizer.Config
	Log        LogConfig
	Tracing    TracingConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr              string
	MaxUploadBytes    int64
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	CSPEnabled        bool
	CSPReportOnly     bool
}

type PipelineConfig struct {
	MaxChunkSize int
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Enabled     bool
	SampleRatio float64
}

// providerKeyEnv lists the conventional key variable of each provider, consulted
// when SUMMARIZER_API_KEY is unset.
var providerKeyEnv = map[string]string{
	summarizer.ProviderHuggingFace: "HF_API_TOKEN",
	summarizer.ProviderOpenAI:      "OPENAI_API_KEY",
	summarizer.ProviderClaude:      "ANTHROPIC_API_KEY",
	summarizer.ProviderGemini:      "GEMINI_API_KEY",
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              DefaultAddr,
			MaxUploadBytes:    DefaultMaxUploadBytes,
			RequestTimeout:    DefaultRequestTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
			CSPEnabled:        true,
		},
		Pipeline:   PipelineConfig{MaxChunkSize: digest.DefaultMaxChunkSize},
		Summarizer: summarizer.DefaultConfig(),
		Log:        LogConfig{Level: "info", Format: "json"},
		Tracing:    TracingConfig{Enabled: false, SampleRatio: 1},
	}
}

// Load resolves defaults, the YAML overlay and the environment, then validates the result.
// Every attempt is counted in the load metrics, whichever layer fails.
func Load() (Config, error) {
	cfg, err := load()
	recordLoad(err == nil)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := fc.Apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}

	ApplyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any variables that are set.
// Malformed numeric values keep the current value and log a warning.
func ApplyEnv(cfg *Config) {
	s := &cfg.Server
	s.Addr = envconfig.GetEnvString("ADDR", s.Addr)
	s.MaxUploadBytes = envconfig.GetEnvInt64("MAX_UPLOAD_BYTES", s.MaxUploadBytes)
	s.RequestTimeout = envconfig.GetEnvDuration("REQUEST_TIMEOUT", s.RequestTimeout)
	s.ShutdownTimeout = envconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.CSPEnabled = envconfig.GetEnvBool("CSP_ENABLED", s.CSPEnabled)
	s.CSPReportOnly = envconfig.GetEnvBool("CSP_REPORT_ONLY", s.CSPReportOnly)

	cfg.Pipeline.MaxChunkSize = envconfig.GetEnvInt("MAX_CHUNK_SIZE", cfg.Pipeline.MaxChunkSize)

	sum := &cfg.Summarizer
	sum.Provider = strings.ToLower(envconfig.GetEnvString("SUMMARIZER_PROVIDER", sum.Provider))
	sum.Model = envconfig.GetEnvString("SUMMARIZER_MODEL", sum.Model)
	if key := envconfig.FirstEnv("SUMMARIZER_API_KEY", providerKeyEnv[sum.Provider]); key != "" {
		sum.APIKey = key
	}
	sum.BaseURL = envconfig.GetEnvString("SUMMARIZER_BASE_URL", sum.BaseURL)
	sum.MinLength = envconfig.GetEnvInt("SUMMARIZER_MIN_LENGTH", sum.MinLength)
	sum.MaxLength = envconfig.GetEnvInt("SUMMARIZER_MAX_LENGTH", sum.MaxLength)
	sum.MaxInputChars = envconfig.GetEnvInt("SUMMARIZER_MAX_INPUT_CHARS", sum.MaxInputChars)
	sum.Timeout = envconfig.GetEnvDuration("SUMMARIZER_TIMEOUT", sum.Timeout)
	sum.MaxAttempts = envconfig.GetEnvInt("SUMMARIZER_MAX_ATTEMPTS", sum.MaxAttempts)
	sum.RatePerSec = envconfig.GetEnvFloat("SUMMARIZER_RATE_PER_SEC", sum.RatePerSec)
	sum.Burst = envconfig.GetEnvInt("SUMMARIZER_BURST", sum.Burst)

	cfg.Log.Level = envconfig.GetEnvString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(envconfig.GetEnvString("LOG_FORMAT", cfg.Log.Format))

	cfg.Tracing.Enabled = envconfig.GetEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.SampleRatio = envconfig.GetEnvFloat("TRACING_SAMPLE_RATIO", cfg.Tracing.SampleRatio)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	field := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		field("addr", errors.New("must not be empty"))
	}
	field("max_upload_bytes", envconfig.Between(c.Server.MaxUploadBytes, 1024, 1<<30))
	field("request_timeout", envconfig.Between(c.Server.RequestTimeout, time.Second, time.Hour))
	field("read_header_timeout", envconfig.Positive(c.Server.ReadHeaderTimeout))
	field("shutdown_timeout", envconfig.Positive(c.Server.ShutdownTimeout))
	field("max_chunk_size", envconfig.Between(c.Pipeline.MaxChunkSize, 1, 1<<20))

	switch c.Log.Format {
	case "json", "text":
	default:
		field("log_format", fmt.Errorf("unsupported format %q", c.Log.Format))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		field("tracing_sample_ratio", fmt.Errorf("%v is outside [0, 1]", c.Tracing.SampleRatio))
	}

	field("summarizer", c.Summarizer.Validate())

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
