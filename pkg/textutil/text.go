// Package textutil provides the text, contact and URL normalizers shared by the
// extractor and the cleaner. Every function is pure and fails closed: bad
// input yields an empty value, never an error.
package textutil

import (
	"net/url"
	"regexp"
	"strings"
)

// disallowed matches anything outside the text whitelist: letters (with their
// combining marks), digits, underscore, space and . , ! ? ( ) -
var disallowed = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_ .,!?()\-]`)

// entityReplacer is the fixed entity table. It runs after the whitelist strip,
// which already removes & # and ;, so "&amp;" reaches it as bare "amp" and no
// entry matches. Callers needing decoded text must unescape before
// NormalizeText.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
	"&hellip;", "...",
)

// NormalizeText collapses whitespace, strips characters outside the whitelist,
// applies the entity table and trims. Entities never survive the strip, so
// "Arts &amp; Science" becomes "Arts amp Science". Empty input yields "".
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = collapseSpace(s)
	s = disallowed.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	// stripping can leave adjacent spaces behind
	return collapseSpace(s)
}

// CollapseSpace replaces every whitespace run with a single space and trims.
func CollapseSpace(s string) string {
	return collapseSpace(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// ValidateURL reports whether s parses as an absolute URL with both a scheme
// and a host.
func ValidateURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
