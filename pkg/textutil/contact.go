package textutil

import (
	"regexp"
	"strings"
)

const (
	// MaxPhones caps extracted and cleaned phone lists.
	MaxPhones = 5
	// MaxEmails caps extracted and cleaned email lists.
	MaxEmails = 3

	countryCode = "91"
)

// phonePatterns are tried in order; the order decides which shape of a number
// is reported first.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[\s-]?\d{10}`),                // international prefix
	regexp.MustCompile(`0\d{2,4}[\s-]?\d{6,8}`),           // STD code
	regexp.MustCompile(`\b\d{10}\b`),                      // bare mobile
	regexp.MustCompile(`\b\d{3}[\s-]\d{3}[\s-]\d{4}\b`),   // hyphenated triplets
	regexp.MustCompile(`\(\d{3}\)[\s-]?\d{3}[\s-]?\d{4}`), // parenthesized area code
}

var (
	emailToken   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	emailShape   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonPhoneChar = regexp.MustCompile(`[^\d+]`)
)

// ExtractPhoneNumbers returns phone-shaped substrings of text whose digit form
// has at least 10 characters, de-duplicated in first-seen order, capped at
// MaxPhones.
func ExtractPhoneNumbers(text string) []string {
	if text == "" {
		return nil
	}

	var phones []string
	seen := make(map[string]bool)
	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if len(nonPhoneChar.ReplaceAllString(match, "")) < 10 {
				continue
			}
			match = strings.TrimSpace(match)
			if seen[match] {
				continue
			}
			seen[match] = true
			phones = append(phones, match)
		}
	}

	if len(phones) > MaxPhones {
		phones = phones[:MaxPhones]
	}
	return phones
}

// ExtractEmails returns valid, lower-cased, unique email addresses found in
// text, capped at MaxEmails.
func ExtractEmails(text string) []string {
	if text == "" {
		return nil
	}

	var emails []string
	seen := make(map[string]bool)
	for _, match := range emailToken.FindAllString(text, -1) {
		email := strings.ToLower(strings.TrimSpace(match))
		if !ValidateEmail(email) || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
		if len(emails) == MaxEmails {
			break
		}
	}
	return emails
}

// NormalizePhoneNumber reduces raw to digits, drops a +91/91 country code or a
// single trunk 0, and formats 10-digit numbers as +91-XXXXX-XXXXX. Numbers of
// 6 to 11 digits pass through unformatted. Anything else is rejected.
func NormalizePhoneNumber(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	cleaned := nonPhoneChar.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(cleaned, "+"+countryCode):
		cleaned = cleaned[len(countryCode)+1:]
	case strings.HasPrefix(cleaned, countryCode) && len(cleaned) == 12:
		cleaned = cleaned[len(countryCode):]
	case strings.HasPrefix(cleaned, "0"):
		cleaned = cleaned[1:]
	}

	if !allDigits(cleaned) {
		return "", false
	}
	switch n := len(cleaned); {
	case n == 10:
		return "+" + countryCode + "-" + cleaned[:5] + "-" + cleaned[5:], true
	case n >= 6 && n <= 11:
		return cleaned, true
	default:
		return "", false
	}
}

// ValidateEmail reports whether s has local@domain.tld shape with a final
// label of at least two letters.
func ValidateEmail(s string) bool {
	if s == "" || !strings.Contains(s, "@") {
		return false
	}
	return emailShape.MatchString(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
