// Package extract pulls a best-effort RawRecord out of arbitrary college web
// pages.
//
// Each scalar field is resolved by an ordered chain of strategies; the first
// strategy that yields a value wins. List fields are collected by scanning
// candidate elements. Extraction never fails: a page that cannot be parsed,
// or a fault in any strategy, yields a record with only SourceURL set.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/collegescout/pkg/record"
	"github.com/jmylchreest/collegescout/pkg/textutil"
)

// Extraction bounds.
const (
	MaxCourses    = 20
	MaxFacilities = 15
	MaxImages     = 5
	maxItemLen    = 100
	minParagraph  = 50
	maxParagraph  = 500
	// locationWindow is how much context is kept on each side of the matched
	// place name.
	locationWindow = 100
)

var (
	nameSelectors = []string{
		"h1", "h2", ".college-name", ".title", `[class*="name"]`,
		`[class*="title"]`, ".heading", ".college-title",
	}
	locationKeywords    = []string{"address", "location", "contact", "situated", "located"}
	placeNames          = []string{"karnataka", "bangalore", "mysore", "hubli"}
	courseSelectors     = []string{`[class*="course"]`, `[class*="program"]`, `[class*="department"]`, "ul li", ".courses li", ".programs li"}
	courseTerms         = []string{"engineering", "medical", "mba", "bsc", "bcom", "ba", "btech", "mtech"}
	facilityKeywords    = []string{"facilities", "amenities", "infrastructure", "campus"}
	establishedKeywords = []string{"established", "founded", "started", "inception"}
	imageExtensions     = []string{".jpg", ".jpeg", ".png", ".webp"}

	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// Strategy attempts to resolve one field from a parsed page.
type Strategy func(doc *goquery.Document) (string, bool)

// FirstOf runs strategies in order and returns the first value found.
func FirstOf(doc *goquery.Document, strategies ...Strategy) string {
	for _, s := range strategies {
		if v, ok := s(doc); ok && v != "" {
			return v
		}
	}
	return ""
}

var (
	nameChain        = buildNameChain()
	locationChain    = buildKeywordChain(locationKeywords, locationNear)
	establishedChain = buildKeywordChain(establishedKeywords, yearNear)
	descriptionChain = []Strategy{metaDescription, firstParagraph}
)

// Extract parses markup fetched from sourceURL into a RawRecord.
func Extract(markup, sourceURL string) (rec record.RawRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = record.RawRecord{SourceURL: sourceURL}
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return record.RawRecord{SourceURL: sourceURL}
	}
	return fromDocument(doc, markup, sourceURL)
}

// FromDocument extracts from an already-parsed page. markup is the raw source
// used for contact extraction.
func FromDocument(doc *goquery.Document, markup, sourceURL string) (rec record.RawRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = record.RawRecord{SourceURL: sourceURL}
		}
	}()
	return fromDocument(doc, markup, sourceURL)
}

func fromDocument(doc *goquery.Document, markup, sourceURL string) record.RawRecord {
	// script and style text would otherwise match keyword scans
	doc.Find("script, style, noscript").Remove()

	return record.RawRecord{
		SourceURL:   sourceURL,
		Name:        FirstOf(doc, nameChain...),
		Location:    FirstOf(doc, locationChain...),
		Phones:      textutil.ExtractPhoneNumbers(markup),
		Emails:      textutil.ExtractEmails(markup),
		Courses:     courses(doc),
		Facilities:  facilities(doc),
		Established: FirstOf(doc, establishedChain...),
		Description: FirstOf(doc, descriptionChain...),
		Images:      images(doc, sourceURL),
	}
}

func buildNameChain() []Strategy {
	chain := make([]Strategy, 0, len(nameSelectors))
	for _, sel := range nameSelectors {
		chain = append(chain, selectorText(sel))
	}
	return chain
}

// selectorText yields the normalized text of the first element matching sel.
func selectorText(sel string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		text := textutil.NormalizeText(doc.Find(sel).First().Text())
		return text, text != ""
	}
}

func buildKeywordChain(keywords []string, near func(*goquery.Selection) (string, bool)) []Strategy {
	chain := make([]Strategy, 0, len(keywords))
	for _, kw := range keywords {
		chain = append(chain, func(doc *goquery.Document) (string, bool) {
			var found string
			withOwnText(doc.Selection, kw).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if v, ok := near(s); ok {
					found = v
					return false
				}
				return true
			})
			return found, found != ""
		})
	}
	return chain
}

// withOwnText returns the elements that directly contain a text node
// mentioning keyword, case-insensitively.
func withOwnText(root *goquery.Selection, keyword string) *goquery.Selection {
	return root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, n := range s.Nodes {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode && strings.Contains(strings.ToLower(c.Data), keyword) {
					return true
				}
			}
		}
		return false
	})
}

// locationNear accepts the element's text if it names a known place, keeping
// a bounded window around the first place name.
func locationNear(s *goquery.Selection) (string, bool) {
	text := textutil.NormalizeText(s.Text())
	lower := strings.ToLower(text)
	for _, place := range placeNames {
		idx := strings.Index(lower, place)
		if idx < 0 {
			continue
		}
		if len(lower) != len(text) {
			text = lower
		}
		start := max(0, idx-locationWindow)
		end := min(len(text), idx+len(place)+locationWindow)
		return textutil.NormalizeText(safeSlice(text, start, end)), true
	}
	return "", false
}

func yearNear(s *goquery.Selection) (string, bool) {
	year := yearPattern.FindString(s.Text())
	return year, year != ""
}

func metaDescription(doc *goquery.Document) (string, bool) {
	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	content = textutil.NormalizeText(content)
	return content, content != ""
}

func firstParagraph(doc *goquery.Document) (string, bool) {
	var found string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := textutil.NormalizeText(s.Text())
		if len(text) > minParagraph && len(text) < maxParagraph {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}

// courses collects program-like labels from course selectors in first-seen
// order.
func courses(doc *goquery.Document) []string {
	var out []string
	seen := make(map[string]bool)

	for _, sel := range courseSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := textutil.NormalizeText(s.Text())
			if text == "" || len(text) > maxItemLen || seen[text] {
				return true
			}
			if !textutil.ContainsAny(strings.ToLower(text), courseTerms...) {
				return true
			}
			seen[text] = true
			out = append(out, text)
			return len(out) < MaxCourses
		})
		if len(out) >= MaxCourses {
			break
		}
	}
	return out
}

// facilities collects short list items from lists inside, or next to,
// elements that mention a facility keyword.
func facilities(doc *goquery.Document) []string {
	var out []string
	seen := make(map[string]bool)

	collect := func(lists *goquery.Selection) {
		lists.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			text := textutil.NormalizeText(li.Text())
			if text == "" || len(text) >= maxItemLen || seen[text] {
				return true
			}
			seen[text] = true
			out = append(out, text)
			return len(out) < MaxFacilities
		})
	}

	for _, kw := range facilityKeywords {
		withOwnText(doc.Selection, kw).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			lists := s.Find("ul, ol")
			if lists.Length() == 0 {
				lists = s.Parent().Find("ul, ol")
			}
			collect(lists)
			return len(out) < MaxFacilities
		})
		if len(out) >= MaxFacilities {
			break
		}
	}
	return out
}

// images resolves img sources against sourceURL and keeps absolute http(s)
// URLs with a known image extension.
func images(doc *goquery.Document, sourceURL string) []string {
	base, _ := url.Parse(sourceURL)

	var out []string
	seen := make(map[string]bool)
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		switch {
		case strings.HasPrefix(src, "//"):
			src = "https:" + src
		case strings.HasPrefix(src, "/") && base != nil:
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		if !isImageURL(src) || seen[src] {
			return true
		}
		seen[src] = true
		out = append(out, src)
		return len(out) < MaxImages
	})
	return out
}

func isImageURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	return textutil.ContainsAny(strings.ToLower(s), imageExtensions...)
}

// safeSlice slices s on byte offsets, widening to rune boundaries.
func safeSlice(s string, start, end int) string {
	for start > 0 && start < len(s) && s[start]&0xC0 == 0x80 {
		start--
	}
	for end < len(s) && s[end]&0xC0 == 0x80 {
		end++
	}
	return s[start:end]
}
