// Package classify maps free-text labels (course names, facility names) onto a
// fixed set of categories using keyword containment.
//
// A Table is an ordered list of rules. Classification is first-match in
// declaration order, not best-match: a label that hits keywords from two
// categories always resolves to the one declared first. That order is part of
// the contract and is pinned by tests.
package classify

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Other is returned when no rule matches.
const Other = "Other"

// Rule binds a category to the keywords that select it.
type Rule struct {
	Category string
	Keywords []string
}

// Table is an immutable, ordered rule set backed by a single Aho-Corasick
// automaton. It is safe for concurrent use.
type Table struct {
	rules    []Rule
	matcher  *ahocorasick.Matcher
	keywords []string
	// keywordRule maps a keyword index to the lowest rule index declaring it.
	keywordRule []int
}

// NewTable builds a table from rules in the order given. Keywords are matched
// lower-cased; empty keywords are ignored.
func NewTable(rules ...Rule) *Table {
	t := &Table{rules: rules}

	index := make(map[string]int)
	for ri, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, dup := index[kw]; dup {
				continue
			}
			index[kw] = len(t.keywords)
			t.keywords = append(t.keywords, kw)
			t.keywordRule = append(t.keywordRule, ri)
		}
	}

	if len(t.keywords) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.keywords)
	}
	return t
}

// Classify returns the category of label according to t.
func Classify(label string, t *Table) string {
	if t == nil {
		return Other
	}
	return t.Classify(label)
}

// Classify lower-cases label and returns the first declared category with any
// keyword contained in it, or Other.
func (t *Table) Classify(label string) string {
	if t.matcher == nil || label == "" {
		return Other
	}

	hits := t.matcher.MatchThreadSafe([]byte(strings.ToLower(label)))
	best := -1
	for _, hit := range hits {
		if hit < 0 || hit >= len(t.keywordRule) {
			continue
		}
		if ri := t.keywordRule[hit]; best == -1 || ri < best {
			best = ri
		}
	}
	if best == -1 {
		return Other
	}
	return t.rules[best].Category
}

// Matches returns every category with a keyword contained in label, in
// declaration order. Other is never included.
func (t *Table) Matches(label string) []string {
	if t.matcher == nil || label == "" {
		return nil
	}

	hit := make([]bool, len(t.rules))
	for _, k := range t.matcher.MatchThreadSafe([]byte(strings.ToLower(label))) {
		if k >= 0 && k < len(t.keywordRule) {
			hit[t.keywordRule[k]] = true
		}
	}

	var out []string
	for ri, ok := range hit {
		if ok {
			out = append(out, t.rules[ri].Category)
		}
	}
	return out
}

// Categories returns the declared categories in order, followed by Other.
func (t *Table) Categories() []string {
	out := make([]string, 0, len(t.rules)+1)
	for _, r := range t.rules {
		out = append(out, r.Category)
	}
	return append(out, Other)
}

// Rules returns a copy of the table's rules.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Group classifies each label and returns the per-category lists with empty
// categories omitted.
func (t *Table) Group(labels []string) map[string][]string {
	groups := make(map[string][]string)
	for _, label := range labels {
		cat := t.Classify(label)
		groups[cat] = append(groups[cat], label)
	}
	return groups
}
