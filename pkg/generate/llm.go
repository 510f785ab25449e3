package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/pkg/llm"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// Config holds generation settings shared by LLM generators.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxAttempts is the total number of model calls per record.
	MaxAttempts int
	// Backoff returns the wait after a failed API call on the given
	// zero-based attempt.
	Backoff func(attempt int) time.Duration
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2500,
		Temperature: 0.7,
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff,
	}
}

// ExponentialBackoff waits 2^attempt seconds.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// Option configures an LLMGenerator.
type Option func(*Config)

// WithMaxTokens sets the maximum output tokens.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithMaxAttempts sets the number of model calls per record.
func WithMaxAttempts(n int) Option {
	return func(c *Config) { c.MaxAttempts = n }
}

// WithBackoff replaces the wait between failed API calls.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(c *Config) { c.Backoff = fn }
}

// LLMGenerator generates content through a single llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

var _ Generator = (*LLMGenerator)(nil)

// NewLLM creates a generator backed by provider.
func NewLLM(provider llm.Provider, opts ...Option) *LLMGenerator {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: config}
}

// Generate calls the model up to MaxAttempts times. Invalid JSON is retried
// immediately; API errors wait for the backoff first.
func (g *LLMGenerator) Generate(ctx context.Context, c record.CanonicalRecord) (*Result, error) {
	log := logger.Component("generator")
	start := time.Now()

	prompt := BuildPrompt(c)

	var usage Usage
	var lastErr error

	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		log.Debug("generation attempt",
			"provider", g.provider.Name(),
			"model", g.provider.Model(),
			"college", c.Name,
			"attempt", attempt+1)

		resp, err := g.provider.Execute(ctx, llm.Request{
			System:      SystemPrompt,
			Prompt:      prompt,
			MaxTokens:   g.config.MaxTokens,
			Temperature: g.config.Temperature,
			JSON:        true,
		})
		if err != nil {
			lastErr = err
			log.Error("generation API error", "provider", g.provider.Name(), "attempt", attempt+1, "error", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < g.config.MaxAttempts-1 {
				if err := sleep(ctx, g.backoff(attempt)); err != nil {
					return nil, err
				}
			}
			continue
		}

		usage.InputTokens += resp.Usage.InputTokens
		usage.OutputTokens += resp.Usage.OutputTokens

		raw := StripCodeFence(resp.Content)
		content, err := parseContent(raw)
		if err != nil {
			lastErr = err
			log.Warn("invalid JSON response", "provider", g.provider.Name(), "attempt", attempt+1)
			continue
		}

		model := resp.Model
		if model == "" {
			model = g.provider.Model()
		}
		return &Result{
			Content:  content,
			Raw:      raw,
			Provider: g.provider.Name(),
			Model:    model,
			Usage:    usage,
			Attempts: attempt + 1,
			Duration: time.Since(start),
		}, nil
	}

	return nil, fmt.Errorf("%s: generation failed after %d attempts: %w", g.provider.Name(), g.config.MaxAttempts, lastErr)
}

// Name returns the provider name.
func (g *LLMGenerator) Name() string {
	if g.provider == nil {
		return "llm"
	}
	return g.provider.Name()
}

// Available is true when a provider is set.
func (g *LLMGenerator) Available() bool {
	return g.provider != nil
}

func (g *LLMGenerator) backoff(attempt int) time.Duration {
	if g.config.Backoff == nil {
		return 0
	}
	return g.config.Backoff(attempt)
}

// parseContent requires a JSON object and decodes it.
func parseContent(raw string) (Content, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return Content{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if probe == nil {
		return Content{}, fmt.Errorf("%w: not an object", ErrInvalidJSON)
	}

	var c Content
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Content{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return c, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
