// Package llm provides a provider-neutral text completion client.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixora-ai/fixora/internal/config"
	"github.com/fixora-ai/fixora/internal/metrics"
)

var (
	// ErrNotConfigured is returned when the selected provider has no credential.
	ErrNotConfigured = errors.New("llm provider is not configured")
	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = errors.New("llm returned an empty response")
	// ErrNoJSON is returned by ExtractJSONObject when the text holds no {...} span.
	ErrNoJSON = errors.New("no JSON object found in response")
)

// Prompt is a single system + user exchange.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Client completes prompts against one provider.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Provider() string
}

// New builds the client selected by cfg. A provider without a credential
// yields a client whose every call fails with ErrNotConfigured, so the server
// can still start and serve the other endpoints.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	var (
		c   Client
		err error
	)
	switch {
	case !cfg.Configured():
		c = unconfigured{provider: cfg.Provider}
	case cfg.Provider == config.ProviderGemini:
		c, err = NewGemini(ctx, GeminiOptions{
			APIKey:      cfg.GeminiKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
		})
	case cfg.Provider == config.ProviderOpenAI:
		c = NewOpenAI(OpenAIOptions{
			APIKey:      cfg.OpenAIKey,
			Model:       cfg.OpenAIModel,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(c, cfg.Timeout), nil
}

type unconfigured struct{ provider string }

func (u unconfigured) Complete(context.Context, Prompt) (string, error) {
	return "", ErrNotConfigured
}

func (u unconfigured) Provider() string { return u.provider }

// ExtractJSONObject returns the span from the first '{' to the last '}'.
// The span is not validated; callers decode it themselves.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// IsJSONArray reports whether raw holds a JSON array, ignoring leading whitespace.
func IsJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

type instrumented struct {
	next    Client
	timeout time.Duration
}

// WithTimeout bounds every Complete call and records its latency.
func WithTimeout(c Client, timeout time.Duration) Client {
	return &instrumented{next: c, timeout: timeout}
}

func (i *instrumented) Complete(ctx context.Context, p Prompt) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := i.next.Complete(ctx, p)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "", err
	case err != nil:
		outcome = "error"
	}
	metrics.LLMRequestDuration.WithLabelValues(i.next.Provider(), outcome).Observe(time.Since(start).Seconds())
	return out, err
}

func (i *instrumented) Provider() string { return i.next.Provider() }

// DisplayName is the provider name shown in client-facing configuration errors.
func DisplayName(provider string) string {
	switch provider {
	case config.ProviderGemini:
		return "Gemini API"
	default:
		return "OpenAI API"
	}
}
