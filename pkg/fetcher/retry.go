package fetcher

import (
	"context"
	"time"

	"github.com/jmylchreest/collegescout/internal/logger"
)

// RetryingFetcher retries a fetcher on retryable errors with a fixed delay.
type RetryingFetcher struct {
	inner    Fetcher
	attempts int
	delay    time.Duration
}

var _ Fetcher = (*RetryingFetcher)(nil)

// WithRetry wraps inner so each Fetch makes up to attempts calls, waiting
// delay between them.
func WithRetry(inner Fetcher, attempts int, delay time.Duration) *RetryingFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingFetcher{inner: inner, attempts: attempts, delay: delay}
}

// Fetch calls the inner fetcher until it succeeds, the error is not
// retryable, or attempts run out.
func (f *RetryingFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	var content Content
	var err error

	for attempt := 1; attempt <= f.attempts; attempt++ {
		content, err = f.inner.Fetch(ctx, url, opts)
		if err == nil || !Retryable(err) || attempt == f.attempts {
			return content, err
		}

		logger.Component("fetcher").Warn("fetch attempt failed",
			"fetcher", f.inner.Type(),
			"url", url,
			"attempt", attempt,
			"error", err)

		if f.delay > 0 {
			t := time.NewTimer(f.delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return content, ctx.Err()
			case <-t.C:
			}
		}
	}
	return content, err
}

// Close closes the inner fetcher.
func (f *RetryingFetcher) Close() error {
	return f.inner.Close()
}

// Type returns the inner fetcher type.
func (f *RetryingFetcher) Type() string {
	return f.inner.Type()
}
