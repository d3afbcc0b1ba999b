package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"pdf-digest/internal/resilience/retry"
)

// OpenAI summarizes through the chat completions API. Setting Config.BaseURL points it at
// any OpenAI-compatible server (vLLM, Ollama, LocalAI).
type OpenAI struct {
	*guard
	client *openai.Client
}

// NewOpenAI creates the summarizer. cfg must already be validated.
func NewOpenAI(cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) *OpenAI {
	cfg = cfg.normalized()
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		guard:  newGuard(cfg, metrics, logger),
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	return o.run(ctx, text, o.call)
}

func (o *OpenAI) call(ctx context.Context, input string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: o.cfg.buildPrompt(input),
		}},
		// Roughly 1.5 tokens per English word, with headroom.
		MaxTokens: o.cfg.MaxLength * 2,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Guard the index; some compatible servers answer with no choices.
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	return resp.Choices[0].Message.Content, nil
}
