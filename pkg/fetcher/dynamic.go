package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/collegescout/internal/logger"
)

// DynamicConfig holds configuration for the headless-browser fetcher.
type DynamicConfig struct {
	UserAgent string
	Timeout   time.Duration
	// ExecPath points at a Chrome binary. Empty lets chromedp find one.
	ExecPath string
}

// DynamicFetcher uses chromedp for JavaScript-rendered pages.
// The browser starts on first use and is shared by later fetches.
type DynamicFetcher struct {
	config DynamicConfig

	mu          sync.Mutex
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

var _ Fetcher = (*DynamicFetcher)(nil)

// NewDynamic creates a new dynamic fetcher.
func NewDynamic(cfg DynamicConfig) *DynamicFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &DynamicFetcher{config: cfg}
}

func (f *DynamicFetcher) allocator() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.allocCtx != nil {
		return f.allocCtx
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if f.config.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.config.UserAgent))
	}
	if f.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.config.ExecPath))
	}

	f.allocCtx, f.cancelAlloc = chromedp.NewExecAllocator(context.Background(), opts...)
	logger.Component("fetcher").Debug("dynamic fetcher browser allocator created", "timeout", f.config.Timeout)
	return f.allocCtx
}

// Fetch renders the page in a headless browser and waits for the body (or
// opts.WaitForSelector) to become visible.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	log := logger.Component("fetcher")
	log.Debug("dynamic fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocator())
	defer cancelBrowser()

	// Tie the browser tab to the caller's context as well as the timeout.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var actions []chromedp.Action
	if len(opts.Headers) > 0 {
		actions = append(actions, extraHeaders(opts.Headers))
	}
	waitSelector := coalesce(opts.WaitForSelector, "body")
	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible(waitSelector),
	)
	if opts.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDuration))
	}

	var html, title string
	actions = append(actions,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	)

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		log.Debug("dynamic fetch browser automation failed", "url", targetURL, "error", err)
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	result.HTML = html
	result.StatusCode = 200 // chromedp doesn't easily expose status codes

	if err := parseContent(&result); err != nil {
		return result, fmt.Errorf("failed to parse content: %w", err)
	}
	if title != "" {
		result.Title = title
	}
	if isChallenge(result) {
		return result, ErrCaptchaChallenge
	}

	log.Debug("dynamic fetch complete", "url", targetURL, "links_count", len(result.Links))
	return result, nil
}

// extraHeaders sends headers with every request the tab makes.
func extraHeaders(headers map[string]string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		h := make(network.Headers, len(headers))
		for k, v := range headers {
			h[k] = v
		}
		if err := network.Enable().Do(ctx); err != nil {
			return err
		}
		return network.SetExtraHTTPHeaders(h).Do(ctx)
	})
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelAlloc != nil {
		f.cancelAlloc()
		f.allocCtx, f.cancelAlloc = nil, nil
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
