package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkSelector extracts links from HTML content.
type LinkSelector struct {
	CSSSelector string         // CSS selector for candidate links
	URLPattern  *regexp.Regexp // Regex the resolved URL must match
	Keywords    []string       // Resolved URL must contain one of these, ignoring case
}

// NewLinkSelector creates a link selector.
func NewLinkSelector(cssSelector string, urlPattern string, keywords ...string) (*LinkSelector, error) {
	ls := &LinkSelector{
		CSSSelector: cssSelector,
	}

	if urlPattern != "" {
		pattern, err := regexp.Compile(urlPattern)
		if err != nil {
			return nil, err
		}
		ls.URLPattern = pattern
	}

	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			ls.Keywords = append(ls.Keywords, kw)
		}
	}

	return ls, nil
}

// ExtractLinks extracts matching links from HTML content, resolved against
// baseURL, in document order and without duplicates.
func (ls *LinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)

	selector := ls.CSSSelector
	if selector == "" {
		selector = "a[href]"
	}

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		linkURL, ok := resolveHref(base, s.AttrOr("href", ""))
		if !ok {
			return
		}
		fullURL := linkURL.String()

		if !ls.matches(fullURL) || seen[fullURL] {
			return
		}
		seen[fullURL] = true

		links = append(links, fullURL)
	})

	return links, nil
}

func (ls *LinkSelector) matches(fullURL string) bool {
	if ls.URLPattern != nil && !ls.URLPattern.MatchString(fullURL) {
		return false
	}
	if len(ls.Keywords) == 0 {
		return true
	}
	lower := strings.ToLower(fullURL)
	for _, kw := range ls.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// PaginationSelector finds the next page link.
type PaginationSelector struct {
	NextSelector string // CSS selector for "next" link
}

// NewPaginationSelector creates a pagination selector.
func NewPaginationSelector(nextSelector string) *PaginationSelector {
	return &PaginationSelector{
		NextSelector: nextSelector,
	}
}

// FindNextPage finds the URL of the next page.
func (ps *PaginationSelector) FindNextPage(html string, baseURL string) (string, bool) {
	if ps.NextSelector == "" {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}

	linkURL, ok := resolveHref(base, doc.Find(ps.NextSelector).First().AttrOr("href", ""))
	if !ok {
		return "", false
	}
	return linkURL.String(), true
}

// resolveHref makes href absolute against base. Empty, fragment-only,
// javascript: and mailto: hrefs are rejected, as is anything that does not
// resolve to http(s).
func resolveHref(base *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return nil, false
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	if !linkURL.IsAbs() {
		linkURL = base.ResolveReference(linkURL)
	}
	if linkURL.Scheme != "http" && linkURL.Scheme != "https" {
		return nil, false
	}

	linkURL.Fragment = ""
	return linkURL, true
}
