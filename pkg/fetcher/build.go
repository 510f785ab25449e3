package fetcher

import "time"

// Config describes the full fetch stack used by the scraper.
type Config struct {
	Static  StaticConfig
	Dynamic DynamicConfig

	// UseDynamicFallback renders pages in a headless browser when the static
	// fetch fails or the page needs JavaScript.
	UseDynamicFallback bool

	RetryAttempts int
	RetryDelay    time.Duration

	// RequestDelay is the politeness gap between page fetches.
	RequestDelay time.Duration
}

// DefaultConfig returns the defaults: 3 static attempts 2s apart, a dynamic
// fallback and 1.5s between requests.
func DefaultConfig() Config {
	return Config{
		Static:             DefaultStaticConfig(),
		Dynamic:            DynamicConfig{Timeout: 30 * time.Second},
		UseDynamicFallback: true,
		RetryAttempts:      3,
		RetryDelay:         2 * time.Second,
		RequestDelay:       1500 * time.Millisecond,
	}
}

// New builds the fetch stack: static with retries, optionally backed by the
// dynamic fetcher, spaced by the request delay.
func New(cfg Config) Fetcher {
	var f Fetcher = WithRetry(NewStatic(cfg.Static), cfg.RetryAttempts, cfg.RetryDelay)
	if cfg.UseDynamicFallback {
		f = NewFallback(f, NewDynamic(cfg.Dynamic))
	}
	if cfg.RequestDelay > 0 {
		f = WithDelay(f, cfg.RequestDelay)
	}
	return f
}
