package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pdf-digest/internal/resilience/retry"
)

// Claude summarizes through Anthropic's Messages API.
type Claude struct {
	*guard
	client anthropic.Client
}

// NewClaude creates the summarizer. cfg must already be validated.
func NewClaude(cfg Config, metrics SummaryMetricsRecorder, logger *slog.Logger) *Claude {
	cfg = cfg.normalized()
	// Retries are governed by the guard, not the SDK.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Claude{
		guard:  newGuard(cfg, metrics, logger),
		client: anthropic.NewClient(opts...),
	}
}

// Summarize implements Summarizer.
func (c *Claude) Summarize(ctx context.Context, text string) (string, error) {
	return c.run(ctx, text, c.call)
}

func (c *Claude) call(ctx context.Context, input string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxLength * 2),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(c.cfg.buildPrompt(input))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
