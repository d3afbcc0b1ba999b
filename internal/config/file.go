package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML overlay. Unset fields leave the current value untouched.
//
//	server:
//	  addr: ":9090"
//	  request_timeout: 90s
//	summarizer:
//	  provider: openai
//	  model: gpt-4o-mini
//	  prompt: "Summarize in %d to %d words:\n\n%s"
type FileConfig struct {
	Server struct {
		Addr            string `yaml:"addr"`
		MaxUploadBytes  int64  `yaml:"max_upload_bytes"`
		RequestTimeout  string `yaml:"request_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
		CSPEnabled      *bool  `yaml:"csp_enabled"`
		CSPReportOnly   *bool  `yaml:"csp_report_only"`
	} `yaml:"server"`
	Pipeline struct {
		MaxChunkSize int `yaml:"max_chunk_size"`
	} `yaml:"pipeline"`
	Summarizer struct {
		Provider      string  `yaml:"provider"`
		Model         string  `yaml:"model"`
		BaseURL       string  `yaml:"base_url"`
		MinLength     int     `yaml:"min_length"`
		MaxLength     int     `yaml:"max_length"`
		MaxInputChars int     `yaml:"max_input_chars"`
		Prompt        string  `yaml:"prompt"`
		Timeout       string  `yaml:"timeout"`
		MaxAttempts   int     `yaml:"max_attempts"`
		RatePerSec    float64 `yaml:"rate_per_sec"`
		Burst         int     `yaml:"burst"`
	} `yaml:"summarizer"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Tracing struct {
		Enabled     *bool    `yaml:"enabled"`
		SampleRatio *float64 `yaml:"sample_ratio"`
	} `yaml:"tracing"`
}

// LoadFile reads and parses a YAML overlay. API keys are deliberately absent from
// the file format and come from the environment only.
func LoadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- path comes from the operator via DIGEST_CONFIG_FILE
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// Apply copies every set field onto cfg.
func (fc *FileConfig) Apply(cfg *Config) error {
	setString(&cfg.Server.Addr, fc.Server.Addr)
	if fc.Server.MaxUploadBytes != 0 {
		cfg.Server.MaxUploadBytes = fc.Server.MaxUploadBytes
	}
	if err := setDuration(&cfg.Server.RequestTimeout, "server.request_timeout", fc.Server.RequestTimeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.ShutdownTimeout, "server.shutdown_timeout", fc.Server.ShutdownTimeout); err != nil {
		return err
	}

	setBool(&cfg.Server.CSPEnabled, fc.Server.CSPEnabled)
	setBool(&cfg.Server.CSPReportOnly, fc.Server.CSPReportOnly)

	setInt(&cfg.Pipeline.MaxChunkSize, fc.Pipeline.MaxChunkSize)

	s := fc.Summarizer
	setString(&cfg.Summarizer.Provider, s.Provider)
	setString(&cfg.Summarizer.Model, s.Model)
	setString(&cfg.Summarizer.BaseURL, s.BaseURL)
	setString(&cfg.Summarizer.Prompt, s.Prompt)
	setInt(&cfg.Summarizer.MinLength, s.MinLength)
	setInt(&cfg.Summarizer.MaxLength, s.MaxLength)
	setInt(&cfg.Summarizer.MaxInputChars, s.MaxInputChars)
	setInt(&cfg.Summarizer.MaxAttempts, s.MaxAttempts)
	setInt(&cfg.Summarizer.Burst, s.Burst)
	if s.RatePerSec != 0 {
		cfg.Summarizer.RatePerSec = s.RatePerSec
	}
	if err := setDuration(&cfg.Summarizer.Timeout, "summarizer.timeout", s.Timeout); err != nil {
		return err
	}

	setString(&cfg.Log.Level, fc.Log.Level)
	setString(&cfg.Log.Format, fc.Log.Format)

	setBool(&cfg.Tracing.Enabled, fc.Tracing.Enabled)
	if fc.Tracing.SampleRatio != nil {
		cfg.Tracing.SampleRatio = *fc.Tracing.SampleRatio
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
