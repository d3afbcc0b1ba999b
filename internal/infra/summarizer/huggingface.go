package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pdf-digest/internal/resilience/retry"
)

// DefaultHuggingFaceURL is the hosted Inference API.
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co"

const maxErrorBody = 4 << 10

// HuggingFace calls a summarization pipeline on the Hugging Face Inference API, or any
// server exposing the same contract (text-generation-inference, a local transformers
// pipeline behind a small HTTP shim).
type HuggingFace struct {
	*guard
	client   *http.Client
	endpoint string
	apiKey   string
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MinLength  int  `json:"min_length"`
	MaxLength  int  `json:"max_length"`
	Truncation bool `json:"truncation"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

// hfError is the error body. EstimatedTime is sent with 503 while the model loads.
type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// NewHuggingFace creates the summarizer. cfg must already be validated.
func NewHuggingFace(cfg Config, client *http.Client, metrics SummaryMetricsRecorder, logger *slog.Logger) *HuggingFace {
	cfg = cfg.normalized()
	if client == nil {
		client = &http.Client{}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultHuggingFaceURL
	}
	return &HuggingFace{
		guard:    newGuard(cfg, metrics, logger),
		client:   client,
		endpoint: base + "/models/" + cfg.Model,
		apiKey:   cfg.APIKey,
	}
}

// Summarize implements Summarizer.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	return h.run(ctx, text, h.call)
}

func (h *HuggingFace) call(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: input,
		Parameters: hfParameters{
			MinLength:  h.cfg.MinLength,
			MaxLength:  h.cfg.MaxLength,
			Truncation: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(raw)),
			RetryAfter: retry.ParseRetryAfter(resp.Header),
		}
		var apiErr hfError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			httpErr.Message = apiErr.Error
			if apiErr.EstimatedTime > 0 {
				httpErr.RetryAfter = time.Duration(apiErr.EstimatedTime * float64(time.Second))
			}
		}
		return "", httpErr
	}

	var out []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 {
		return "", ErrEmptySummary
	}
	return out[0].SummaryText, nil
}
