// Package generative wraps a langchaingo model behind a rate limiter.
package generative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"
)

// DefaultModel is the Google AI model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Rate limiter defaults.
const (
	defaultRateLimit = 1.0
	defaultBurst     = 5
)

// ErrEmptyCompletion is returned when the model answers with blank text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Client generates text from single prompts.
type Client struct {
	llm     llms.Model
	limiter *rate.Limiter
}

// New wraps llm. Non-positive limits fall back to defaults.
func New(llm llms.Model, requestsPerSecond float64, burst int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRateLimit
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Client{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// NewGoogleAI builds a client backed by the Google AI provider.
func NewGoogleAI(ctx context.Context, apiKey, model string, requestsPerSecond float64, burst int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key required")
	}
	if model == "" {
		model = DefaultModel
	}
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(model))
	if err != nil {
		return nil, fmt.Errorf("create google ai client: %w", err)
	}
	return New(llm, requestsPerSecond, burst), nil
}

// Generate returns the model's completion for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
