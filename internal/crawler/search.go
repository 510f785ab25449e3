package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SearchEndpoint is the HTML search page queried for college sites.
const SearchEndpoint = "https://duckduckgo.com/html/"

// searchScope narrows queries to institutional domains.
const searchScope = "+site:edu+OR+site:ac.in+OR+site:org"

// collegeMarkers are the URL fragments that make a search result worth
// scraping.
var collegeMarkers = []string{".edu", ".ac.in", "college", "university"}

// DefaultSearchTerms are the queries used when none are configured.
var DefaultSearchTerms = []string{
	"engineering colleges in karnataka",
	"medical colleges in karnataka",
	"arts and science colleges karnataka",
	"management colleges karnataka",
	"universities in karnataka",
}

// SearchURL builds the results-page URL for term.
func SearchURL(term string) string {
	return SearchEndpoint + "?q=" + url.QueryEscape(strings.TrimSpace(term)) + searchScope
}

// ParseSearchResults extracts college links from a results page. Redirect
// links carrying the target in a uddg parameter are unwrapped. Results already
// in skip are dropped, and at most limit links are returned when limit > 0.
func ParseSearchResults(html string, skip Visited, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(SearchEndpoint)

	var out []string
	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		linkURL, ok := resolveHref(base, s.AttrOr("href", ""))
		if !ok {
			return true
		}
		target := unwrapRedirect(linkURL)
		if target == "" || isSearchHost(target) || !isCollegeURL(target) {
			return true
		}
		if seen[target] || skip.Has(target) {
			return true
		}
		seen[target] = true
		out = append(out, target)
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

// unwrapRedirect returns the uddg target of a redirect link, or the link
// itself. Targets that are not absolute http(s) URLs yield "".
func unwrapRedirect(u *url.URL) string {
	target := u.String()
	if uddg := u.Query().Get("uddg"); uddg != "" {
		target = uddg
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	parsed.Fragment = ""
	return parsed.String()
}

func isSearchHost(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "duckduckgo.com" || strings.HasSuffix(host, ".duckduckgo.com")
}

func isCollegeURL(target string) bool {
	lower := strings.ToLower(target)
	for _, m := range collegeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
