// Package lookup is a static table of well-known Karnataka institutions with
// forgiving name matching.
package lookup

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jmylchreest/collegescout/pkg/record"
)

// ErrNotFound is returned when no entry matches a query.
var ErrNotFound = errors.New("college not found")

// Entry is one known institution.
type Entry struct {
	Key          string `json:"key" yaml:"key"`
	OfficialName string `json:"official_name" yaml:"official_name"`
	Website      string `json:"website" yaml:"website"`
	Location     string `json:"location" yaml:"location"`
	Type         string `json:"type" yaml:"type"`
	Established  string `json:"established" yaml:"established"`
	Affiliation  string `json:"affiliation" yaml:"affiliation"`
}

// Raw converts the entry into a RawRecord seed. The website doubles as the
// source URL.
func (e Entry) Raw() record.RawRecord {
	return record.RawRecord{
		Name:        e.OfficialName,
		Location:    e.Location,
		Website:     e.Website,
		Established: e.Established,
		Affiliation: e.Affiliation,
		SourceURL:   e.Website,
		CollegeType: e.Type,
	}
}

// Overlay copies the entry's authoritative fields onto a scraped record.
func (e Entry) Overlay(raw record.RawRecord) record.RawRecord {
	raw.Name = e.OfficialName
	raw.Location = e.Location
	raw.Established = e.Established
	raw.Affiliation = e.Affiliation
	raw.CollegeType = e.Type
	if raw.Website == "" {
		raw.Website = e.Website
	}
	if raw.SourceURL == "" {
		raw.SourceURL = e.Website
	}
	return raw
}

// stopwords never count towards a token-overlap match.
var stopwords = map[string]bool{
	"of": true, "the": true, "and": true, "in": true, "at": true, "for": true, "to": true,
}

// Table is an ordered, immutable set of entries.
type Table struct {
	entries []Entry
	folded  []foldedEntry
}

type foldedEntry struct {
	key    string
	name   string
	tokens map[string]bool
}

// NewTable builds a table; match order follows the order of entries.
func NewTable(entries ...Entry) *Table {
	t := &Table{entries: entries, folded: make([]foldedEntry, len(entries))}
	for i, e := range entries {
		name := fold(e.OfficialName)
		t.folded[i] = foldedEntry{key: fold(e.Key), name: name, tokens: tokenSet(name)}
	}
	return t
}

// Find resolves a free-text name. Matching is tried in three passes, each in
// table order: exact key match, then substring containment either way against
// keys and official names, then any shared significant word with an official
// name. The first hit wins, so short keys can shadow later entries: "sit"
// is inside "university".
func (t *Table) Find(query string) (Entry, error) {
	q := fold(query)
	if q == "" {
		return Entry{}, ErrNotFound
	}

	for i, f := range t.folded {
		if f.key == q {
			return t.entries[i], nil
		}
	}

	for i, f := range t.folded {
		if strings.Contains(f.key, q) || strings.Contains(q, f.key) ||
			strings.Contains(f.name, q) || strings.Contains(q, f.name) {
			return t.entries[i], nil
		}
	}

	queryTokens := tokenSet(q)
	for i, f := range t.folded {
		for tok := range queryTokens {
			if f.tokens[tok] {
				return t.entries[i], nil
			}
		}
	}

	return Entry{}, ErrNotFound
}

// Names returns all official names, sorted.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.OfficialName
	}
	sort.Strings(names)
	return names
}

// ByType returns entries whose type equals collegeType, ignoring case, in
// table order.
func (t *Table) ByType(collegeType string) []Entry {
	var out []Entry
	for _, e := range t.entries {
		if strings.EqualFold(e.Type, collegeType) {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of the entries in table order.
func (t *Table) All() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Find looks a name up in the Karnataka table.
func Find(query string) (Entry, error) { return Karnataka.Find(query) }

// Names lists the Karnataka table's official names.
func Names() []string { return Karnataka.Names() }

// ByType filters the Karnataka table by institution type.
func ByType(collegeType string) []Entry { return Karnataka.ByType(collegeType) }

// fold lower-cases s, strips diacritics and punctuation and collapses spaces.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		if !stopwords[tok] {
			set[tok] = true
		}
	}
	return set
}

// GuessURLs derives candidate official websites from a free-text name, for
// institutions missing from the table. The slug keeps letters and digits
// only.
func GuessURLs(name string) []string {
	slug := strings.ReplaceAll(fold(name), " ", "")
	if slug == "" {
		return nil
	}
	return []string{
		"https://" + slug + ".ac.in/",
		"https://www." + slug + ".edu/",
		"https://" + slug + ".edu.in/",
	}
}
