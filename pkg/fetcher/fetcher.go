// Package fetcher defines the interface for web page fetching and the static
// (colly) and dynamic (chromedp) implementations used to pull college pages.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior for one request.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector to wait for (dynamic fetchers)
	WaitDuration    time.Duration // Additional wait after load
	Headers         map[string]string
}

// DefaultHeaders returns the browser-like request headers sent with every
// page fetch.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Text        string // Extracted readable text
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
	Links       []string // Absolute links found on the page
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrHTTPStatus).
var (
	// ErrHTTPStatus indicates the server answered with a status other than 200.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEmptyBody indicates a 200 response with no content.
	ErrEmptyBody = errors.New("empty response body")
	// ErrCaptchaChallenge indicates the site served an interactive CAPTCHA
	// instead of the page.
	ErrCaptchaChallenge = errors.New("captcha challenge detected")
)

// Retryable reports whether err is worth another attempt. Cancellation and
// CAPTCHA walls are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrCaptchaChallenge)
}
