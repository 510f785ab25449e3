package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/collegescout/internal/logger"
)

// FallbackFetcher tries a primary fetcher and falls back to a secondary one
// when the primary fails or returns a page that needs JavaScript.
type FallbackFetcher struct {
	primary   Fetcher
	secondary Fetcher
}

var _ Fetcher = (*FallbackFetcher)(nil)

// NewFallback creates a fallback fetcher. A nil secondary disables the
// fallback.
func NewFallback(primary, secondary Fetcher) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, secondary: secondary}
}

// Fetch tries primary first, then secondary.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	content, err := f.primary.Fetch(ctx, url, opts)
	if f.secondary == nil || ctx.Err() != nil {
		return content, err
	}

	switch {
	case err != nil:
		logger.Component("fetcher").Info("static fetch failed, trying dynamic", "url", url, "error", err)
	case NeedsJavaScript(content):
		logger.Component("fetcher").Info("page needs JavaScript, trying dynamic", "url", url)
	default:
		return content, nil
	}

	dynamic, dynErr := f.secondary.Fetch(ctx, url, opts)
	if dynErr == nil {
		return dynamic, nil
	}
	if err == nil {
		// The static page is still better than nothing.
		return content, nil
	}
	return dynamic, fmt.Errorf("%s: %w", f.Type(), errors.Join(err, dynErr))
}

// Close releases both fetchers.
func (f *FallbackFetcher) Close() error {
	var errs []error
	errs = append(errs, f.primary.Close())
	if f.secondary != nil {
		errs = append(errs, f.secondary.Close())
	}
	return errors.Join(errs...)
}

// Type returns e.g. "static+dynamic".
func (f *FallbackFetcher) Type() string {
	if f.secondary == nil {
		return f.primary.Type()
	}
	return f.primary.Type() + "+" + f.secondary.Type()
}

// NeedsJavaScript checks if a page appears to require JS rendering.
func NeedsJavaScript(content Content) bool {
	html := strings.ToLower(content.HTML)
	text := strings.ToLower(content.Text)

	spaMarkers := []string{
		`<div id="root"></div>`,   // React
		`<div id="app"></div>`,    // Vue
		"<app-root></app-root>",   // Angular
		`<div id="__next"></div>`, // Next.js
		`<div id="__nuxt"></div>`, // Nuxt.js
	}
	for _, marker := range spaMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}

	if len(strings.TrimSpace(text)) < 100 {
		for _, indicator := range []string{"loading", "please wait", "javascript required", "enable javascript"} {
			if strings.Contains(text, indicator) {
				return true
			}
		}
	}
	return false
}
