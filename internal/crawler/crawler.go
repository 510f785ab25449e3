package crawler

import (
	"context"

	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/pkg/fetcher"
)

// Config holds discovery configuration.
type Config struct {
	SearchTerms []string    // Queries sent to the search endpoint
	Directories []Directory // Listing sites to crawl
	MaxColleges int         // Cap on the combined seed list (0 = unlimited)
	Fetch       fetcher.Options
}

// DefaultConfig returns the built-in search terms and directories.
func DefaultConfig() Config {
	return Config{
		SearchTerms: append([]string(nil), DefaultSearchTerms...),
		Directories: append([]Directory(nil), DefaultDirectories...),
		MaxColleges: 50,
	}
}

// Discoverer finds college pages to scrape.
type Discoverer struct {
	fetcher fetcher.Fetcher
	config  Config
}

// New creates a Discoverer that fetches through f.
func New(f fetcher.Fetcher, cfg Config) *Discoverer {
	return &Discoverer{
		fetcher: f,
		config:  cfg,
	}
}

// Discover builds the seed list: explicit seeds first, then search results,
// then directory links. URLs are normalized, de-duplicated, filtered against
// visited and capped at MaxColleges. Individual source failures are logged
// and skipped; only a cancelled context is returned as an error.
func (d *Discoverer) Discover(ctx context.Context, seeds []string, visited Visited) ([]string, error) {
	log := logger.Component("crawler")
	queue := NewURLQueue(visited, d.config.MaxColleges)

	for _, s := range seeds {
		queue.Add(s)
	}

	perTerm := 0
	if d.config.MaxColleges > 0 && len(d.config.SearchTerms) > 0 {
		perTerm = max(d.config.MaxColleges/len(d.config.SearchTerms), 1)
	}
	for _, term := range d.config.SearchTerms {
		if queue.Full() {
			break
		}
		links, err := d.Search(ctx, term, perTerm, visited)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("search failed", "term", term, "error", err)
			continue
		}
		added := 0
		for _, link := range links {
			if queue.Add(link) {
				added++
			}
		}
		log.Debug("search results", "term", term, "found", len(links), "added", added)
	}

	for _, dir := range d.config.Directories {
		if queue.Full() {
			break
		}
		links, err := dir.Links(ctx, d.fetcher, d.config.Fetch, visited)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("directory failed", "directory", dir.Name, "error", err)
			continue
		}
		added := 0
		for _, link := range links {
			if queue.Add(link) {
				added++
			}
		}
		log.Info("directory scraped", "directory", dir.Name, "found", len(links), "added", added)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	urls := queue.URLs()
	log.Info("discovery complete", "urls", len(urls), "skipped_visited", visited.Len())
	return urls, nil
}

// Search runs one query and returns up to limit college links not in skip.
func (d *Discoverer) Search(ctx context.Context, term string, limit int, skip Visited) ([]string, error) {
	content, err := d.fetcher.Fetch(ctx, SearchURL(term), d.config.Fetch)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(content.HTML, skip, limit)
}
