package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/jmylchreest/collegescout/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	// UserAgent pins the user agent. Empty rotates a random browser user
	// agent per request.
	UserAgent string
	Timeout   time.Duration
	// MaxBodySize caps the response body in bytes. Zero uses colly's default.
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

// StaticFetcher uses Colly for static HTML fetching.
type StaticFetcher struct {
	config StaticConfig
}

var _ Fetcher = (*StaticFetcher)(nil)

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultStaticConfig().Timeout
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves page content using Colly. Only a 200 response with a
// non-empty body counts as success.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	log := logger.Component("fetcher")
	log.Debug("static fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Create a new collector for each request
	c := colly.NewCollector()
	if ua := coalesce(opts.UserAgent, f.config.UserAgent); ua != "" {
		c.UserAgent = ua
	} else {
		extensions.RandomUserAgent(c)
	}
	if f.config.MaxBodySize > 0 {
		c.MaxBodySize = f.config.MaxBodySize
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range opts.Headers {
			r.Headers.Set(k, v)
		}
	})

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
		log.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", humanize.Bytes(uint64(len(r.Body))))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = err
		log.Debug("static fetch error", "status", result.StatusCode, "error", err)
	})

	visitErr := c.Visit(targetURL)
	if err := ctx.Err(); err != nil {
		return result, err
	}

	switch {
	case result.StatusCode != 0 && result.StatusCode != http.StatusOK:
		return result, fmt.Errorf("%w: %d %s", ErrHTTPStatus, result.StatusCode, http.StatusText(result.StatusCode))
	case visitErr != nil:
		return result, fmt.Errorf("failed to visit URL: %w", visitErr)
	case fetchErr != nil:
		return result, fmt.Errorf("fetch error: %w", fetchErr)
	case strings.TrimSpace(result.HTML) == "":
		return result, ErrEmptyBody
	}

	if err := parseContent(&result); err != nil {
		return result, fmt.Errorf("failed to parse content: %w", err)
	}
	if isChallenge(result) {
		return result, ErrCaptchaChallenge
	}

	log.Debug("static fetch complete",
		"url", targetURL,
		"title", result.Title,
		"links_count", len(result.Links))
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}
