package fetcher

import (
	"context"
	"sync"
	"time"
)

// PoliteFetcher spaces out requests so consecutive fetches start at least
// delay apart, however many goroutines share it.
type PoliteFetcher struct {
	inner Fetcher
	delay time.Duration

	mu   sync.Mutex
	next time.Time
}

var _ Fetcher = (*PoliteFetcher)(nil)

// WithDelay wraps inner with a politeness delay.
func WithDelay(inner Fetcher, delay time.Duration) *PoliteFetcher {
	return &PoliteFetcher{inner: inner, delay: delay}
}

// Fetch waits for the fetcher's next slot, then fetches.
func (f *PoliteFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	if err := f.wait(ctx); err != nil {
		return Content{URL: url}, err
	}
	return f.inner.Fetch(ctx, url, opts)
}

func (f *PoliteFetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	now := time.Now()
	start := now
	if f.next.After(now) {
		start = f.next
	}
	f.next = start.Add(f.delay)
	f.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close closes the inner fetcher.
func (f *PoliteFetcher) Close() error {
	return f.inner.Close()
}

// Type returns the inner fetcher type.
func (f *PoliteFetcher) Type() string {
	return f.inner.Type()
}
