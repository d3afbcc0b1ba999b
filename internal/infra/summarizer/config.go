package summarizer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderClaude      = "claude"
	ProviderGemini      = "gemini"
	ProviderNoop        = "noop"
)

// Defaults for the summary length hints and input truncation.
const (
	DefaultMinLength     = 200
	DefaultMaxLength     = 300
	DefaultMaxInputChars = 10000
	DefaultModel         = "t5-small"
	DefaultTimeout       = 60 * time.Second

	// DefaultPrompt is used by chat-style providers. It receives MinLength,
	// MaxLength and the input text, in that order.
	DefaultPrompt = "Summarize the following document in %d to %d words. " +
		"Reply with the summary only.\n\n%s"
)

var defaultModels = map[string]string{
	ProviderHuggingFace: DefaultModel,
	ProviderOpenAI:      "gpt-4o-mini",
	ProviderClaude:      "claude-sonnet-4-5-20250929",
	ProviderGemini:      "gemini-1.5-flash",
	ProviderNoop:        "first-words",
}

// ErrUnknownProvider is returned for a Provider outside the supported set.
var ErrUnknownProvider = errors.New("unknown summarizer provider")

// Config selects and tunes a summarization backend.
type Config struct {
	// Provider is one of huggingface, openai, claude, gemini, noop.
	Provider string

	// Model identifier at the provider. Empty selects the provider default.
	Model string

	// APIKey for the provider. Optional for huggingface and for local
	// OpenAI-compatible servers, ignored by noop.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// MinLength and MaxLength are length hints passed to the model.
	// They are advisory; outputs outside the range are only counted in metrics.
	MinLength int
	MaxLength int

	// MaxInputChars caps the text sent to the model, in runes.
	MaxInputChars int

	// Prompt is a fmt template for chat providers, see DefaultPrompt.
	Prompt string

	// Timeout bounds a single model call.
	Timeout time.Duration

	// MaxAttempts is the number of tries per call. 1 disables retries.
	MaxAttempts int

	// RatePerSec and Burst configure the token bucket in front of the provider.
	// RatePerSec <= 0 disables rate limiting.
	RatePerSec float64
	Burst      int
}

// DefaultConfig returns the configuration of the default Hugging Face t5-small backend.
func DefaultConfig() Config {
	return Config{
		Provider:      ProviderHuggingFace,
		Model:         DefaultModel,
		MinLength:     DefaultMinLength,
		MaxLength:     DefaultMaxLength,
		MaxInputChars: DefaultMaxInputChars,
		Prompt:        DefaultPrompt,
		Timeout:       DefaultTimeout,
		MaxAttempts:   1,
		RatePerSec:    2,
		Burst:         4,
	}
}

// normalized returns a copy with zero fields replaced by their defaults.
func (c Config) normalized() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderHuggingFace
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.MinLength == 0 {
		c.MinLength = DefaultMinLength
	}
	if c.MaxLength == 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.MaxInputChars == 0 {
		c.MaxInputChars = DefaultMaxInputChars
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	c = c.normalized()

	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if err := ValidateLengthBounds(c.MinLength, c.MaxLength); err != nil {
		return fmt.Errorf("invalid length hints: %w", err)
	}
	if c.MaxInputChars <= 0 {
		return fmt.Errorf("max input chars must be positive, got %d", c.MaxInputChars)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if strings.Count(c.Prompt, "%d") != 2 || strings.Count(c.Prompt, "%s") != 1 {
		return fmt.Errorf("prompt must contain two %%d verbs and one %%s verb")
	}

	switch c.Provider {
	case ProviderClaude, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%s provider requires an API key", c.Provider)
		}
	case ProviderOpenAI:
		if c.APIKey == "" && c.BaseURL == "" {
			return fmt.Errorf("openai provider requires an API key or a base URL")
		}
	}
	return nil
}

// ValidateLengthBounds checks 1 <= min <= max.
//
//	ValidateLengthBounds(200, 300) // nil
//	ValidateLengthBounds(0, 300)   // error
//	ValidateLengthBounds(300, 200) // error
func ValidateLengthBounds(minLength, maxLength int) error {
	if minLength < 1 {
		return fmt.Errorf("min length %d must be at least 1", minLength)
	}
	if maxLength < minLength {
		return fmt.Errorf("max length %d is below min length %d", maxLength, minLength)
	}
	return nil
}

// buildPrompt renders the chat prompt for text.
func (c Config) buildPrompt(text string) string {
	return fmt.Sprintf(c.Prompt, c.MinLength, c.MaxLength, text)
}
