package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-digest/internal/resilience/retry"
)

func newOpenAIServer(t *testing.T, status int, body string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Summarize(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "  A compact summary of the paper.  "}, "finish_reason": "stop"}]
	}`, &seen)

	cfg := testConfig(ProviderOpenAI)
	cfg.BaseURL = srv.URL + "/v1"
	cfg.APIKey = "sk-test"
	o := NewOpenAI(cfg, newFakeRecorder(), nil)

	got, err := o.Summarize(context.Background(), "Body of the paper.")
	require.NoError(t, err)

	assert.Equal(t, "A compact summary of the paper.", got)
	assert.Equal(t, "gpt-4o-mini", seen.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content, "in 3 to 10 words")
	assert.Contains(t, seen.Messages[0].Content, "Body of the paper.")
	assert.Equal(t, 20, seen.MaxTokens)
	assert.Equal(t, Info{Provider: "openai", Model: "gpt-4o-mini"}, Describe(o))
}

func TestOpenAI_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    error
	}{
		{
			name:       "server error maps to HTTPError",
			status:     http.StatusInternalServerError,
			body:       `{"error": {"message": "upstream failure", "type": "server_error"}}`,
			wantStatus: 500,
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error": {"message": "slow down", "type": "rate_limit"}}`,
			wantStatus: 429,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id": "x", "object": "chat.completion", "choices": []}`,
			wantErr: ErrEmptySummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIServer(t, tt.status, tt.body, nil)
			cfg := testConfig(ProviderOpenAI)
			cfg.BaseURL = srv.URL + "/v1"

			_, err := NewOpenAI(cfg, newFakeRecorder(), nil).Summarize(context.Background(), "text")
			require.Error(t, err)

			if tt.wantStatus != 0 {
				var httpErr *retry.HTTPError
				require.True(t, errors.As(err, &httpErr), "got %v", err)
				assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
				assert.True(t, retry.IsRetryable(err))
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
