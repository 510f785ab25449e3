// Package crawler discovers college pages from search results and college
// directories, and tracks which URLs a session has already scraped.
package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// URLQueue is an ordered, de-duplicated set of URLs waiting to be scraped.
type URLQueue struct {
	mu    sync.Mutex
	queue []string
	seen  map[string]bool
	skip  Visited
	limit int
}

// NewURLQueue creates a queue that refuses URLs in skip and stops accepting
// once limit URLs are queued. A zero limit is unlimited.
func NewURLQueue(skip Visited, limit int) *URLQueue {
	return &URLQueue{
		seen:  make(map[string]bool),
		skip:  skip,
		limit: limit,
	}
}

// Add queues a URL unless it is invalid, already queued, already visited or
// the queue is full. It reports whether the URL was added.
func (q *URLQueue) Add(rawURL string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	normalized := normalizeURL(rawURL)
	if normalized == "" || q.seen[normalized] || q.skip.Has(normalized) {
		return false
	}
	if q.limit > 0 && len(q.queue) >= q.limit {
		return false
	}

	q.seen[normalized] = true
	q.queue = append(q.queue, normalized)
	return true
}

// Full reports whether the queue has reached its limit.
func (q *URLQueue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit > 0 && len(q.queue) >= q.limit
}

// Pop removes and returns the next URL from the queue.
func (q *URLQueue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return "", false
	}
	item := q.queue[0]
	q.queue = q.queue[1:]
	return item, true
}

// Len returns the number of items in the queue.
func (q *URLQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// URLs returns the queued URLs in insertion order.
func (q *URLQueue) URLs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.queue...)
}

// normalizeURL normalizes an absolute http(s) URL for comparison. Anything
// else normalizes to "".
func normalizeURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)

	if parsed.Path == "" {
		parsed.Path = "/"
	}
	// Remove trailing slash from path (unless it's just "/")
	if len(parsed.Path) > 1 && parsed.Path[len(parsed.Path)-1] == '/' {
		parsed.Path = parsed.Path[:len(parsed.Path)-1]
	}

	return parsed.String()
}

// IsSameDomain checks if two URLs are on the same domain.
func IsSameDomain(url1, url2 string) bool {
	parsed1, err := url.Parse(url1)
	if err != nil {
		return false
	}
	parsed2, err := url.Parse(url2)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed1.Host, parsed2.Host)
}
