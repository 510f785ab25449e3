package crawler

import "sort"

// Visited is the set of URLs already scraped in a session. It is a value:
// With returns a new set and never changes the receiver, so a batch can be
// handed the set it should skip and return the set it produced.
type Visited struct {
	urls map[string]struct{}
}

// NewVisited builds a set from urls. Invalid URLs are ignored.
func NewVisited(urls ...string) Visited {
	return Visited{}.With(urls...)
}

// Has reports whether url, after normalization, is in the set.
func (v Visited) Has(url string) bool {
	if v.urls == nil {
		return false
	}
	_, ok := v.urls[normalizeURL(url)]
	return ok
}

// With returns a copy of v that also contains urls.
func (v Visited) With(urls ...string) Visited {
	next := Visited{urls: make(map[string]struct{}, len(v.urls)+len(urls))}
	for u := range v.urls {
		next.urls[u] = struct{}{}
	}
	for _, u := range urls {
		if n := normalizeURL(u); n != "" {
			next.urls[n] = struct{}{}
		}
	}
	return next
}

// Len returns the number of URLs in the set.
func (v Visited) Len() int {
	return len(v.urls)
}

// URLs returns the normalized URLs, sorted.
func (v Visited) URLs() []string {
	out := make([]string, 0, len(v.urls))
	for u := range v.urls {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
