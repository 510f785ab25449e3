package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/collegescout/pkg/record"
)

var (
	// ErrNoGeneratorAvailable is returned when no generator in a chain is available.
	ErrNoGeneratorAvailable = errors.New("no generator available")

	// ErrInvalidJSON is returned when a model response is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON in model response")
)

// Generator produces student-facing content for a canonical record.
type Generator interface {
	// Generate builds content for c.
	Generate(ctx context.Context, c record.CanonicalRecord) (*Result, error)

	// Name returns the generator identifier.
	Name() string

	// Available returns true if the generator is configured and can be tried.
	Available() bool
}

// Result holds generated content and how it was produced.
type Result struct {
	Content Content

	// Raw is the model response after fence stripping. Empty for the static
	// generator.
	Raw      string
	Provider string
	Model    string
	Usage    Usage

	// Attempts is the number of model calls made by the generator that
	// produced this result.
	Attempts int
	Duration time.Duration

	// Fallback is true when Content is the fixed fallback payload.
	Fallback bool
}

// Usage tracks token consumption across attempts.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Static always returns the fallback payload.
type Static struct{}

var _ Generator = Static{}

// Generate returns the fallback payload.
func (Static) Generate(context.Context, record.CanonicalRecord) (*Result, error) {
	return &Result{Content: Fallback(), Provider: "static", Fallback: true}, nil
}

// Name returns "static".
func (Static) Name() string { return "static" }

// Available is always true.
func (Static) Available() bool { return true }

// Chain tries each generator in order until one succeeds.
type Chain struct {
	generators []Generator
}

var _ Generator = (*Chain)(nil)

// NewChain creates a fallback chain. Unavailable generators are skipped at
// generation time.
func NewChain(generators ...Generator) *Chain {
	return &Chain{generators: generators}
}

// Generate tries each available generator in order.
func (c *Chain) Generate(ctx context.Context, rec record.CanonicalRecord) (*Result, error) {
	var lastErr error
	var tried []string

	for _, g := range c.generators {
		if !g.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tried = append(tried, g.Name())
		result, err := g.Generate(ctx, rec)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if len(tried) == 0 {
		return nil, ErrNoGeneratorAvailable
	}
	return nil, fmt.Errorf("all generators failed (tried: %s): %w", strings.Join(tried, ", "), lastErr)
}

// Name returns the chain name, e.g. "fallback(openrouter->ollama->static)".
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.generators))
	for _, g := range c.generators {
		names = append(names, g.Name())
	}
	return "fallback(" + strings.Join(names, "->") + ")"
}

// Available returns true if at least one generator is available.
func (c *Chain) Available() bool {
	for _, g := range c.generators {
		if g.Available() {
			return true
		}
	}
	return false
}

// Len returns the number of generators in the chain.
func (c *Chain) Len() int {
	return len(c.generators)
}
