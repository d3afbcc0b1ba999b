package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini summarizes with Google's Gemini models.
type Gemini struct {
	*guard
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini dials the Gemini API. cfg must already be validated.
func NewGemini(ctx context.Context, cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) (*Gemini, error) {
	cfg = cfg.normalized()
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetMaxOutputTokens(int32(cfg.MaxLength * 2))
	model.SetTemperature(0.2)

	return &Gemini{
		guard:  newGuard(cfg, metrics, logger),
		client: client,
		model:  model,
	}, nil
}

// Summarize implements Summarizer.
func (g *Gemini) Summarize(ctx context.Context, text string) (string, error) {
	return g.run(ctx, text, g.call)
}

// Close releases the underlying gRPC connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) call(ctx context.Context, input string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(g.cfg.buildPrompt(input)))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	return candidateText(resp), nil
}

// candidateText returns the text parts of the first candidate that has any.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
