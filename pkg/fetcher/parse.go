package fetcher

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// captchaMarkers identify challenge pages served instead of content.
var captchaMarkers = []string{
	"g-recaptcha", "h-captcha", "cf-turnstile", "captcha-delivery",
	"/cdn-cgi/challenge-platform", "verify you are human",
}

// challengeTextLimit is the most readable text a challenge page can carry.
// Real pages that embed a CAPTCHA widget in a form have far more.
const challengeTextLimit = 1000

// parseContent extracts title, readable text and absolute links from HTML.
func parseContent(content *Content) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content.HTML))
	if err != nil {
		return err
	}

	content.Title = strings.TrimSpace(doc.Find("title").First().Text())

	// Remove script and style elements before extracting text
	doc.Find("script, style, noscript, iframe, svg").Remove()

	var textParts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			textParts = append(textParts, text)
		}
	})
	content.Text = strings.Join(textParts, "\n")

	baseURL, _ := url.Parse(content.URL)
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}
		if !linkURL.IsAbs() && baseURL != nil {
			linkURL = baseURL.ResolveReference(linkURL)
		}

		link := linkURL.String()
		if !seen[link] {
			seen[link] = true
			content.Links = append(content.Links, link)
		}
	})

	return nil
}

// isChallenge reports whether a parsed page looks like a CAPTCHA wall.
func isChallenge(content Content) bool {
	if len(content.Text) > challengeTextLimit {
		return false
	}
	html := strings.ToLower(content.HTML)
	for _, m := range captchaMarkers {
		if strings.Contains(html, m) {
			return true
		}
	}
	return false
}

// cleanText normalizes whitespace in text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
