// Package clean turns RawRecords into validated, bounded, categorized and
// scored CanonicalRecords.
//
// Cleaning is total. Clean always returns a well-formed record; when an
// internal fault occurs it returns the degraded record produced by Minimal.
// CleanResult exposes whether that happened.
package clean

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jmylchreest/collegescout/pkg/classify"
	"github.com/jmylchreest/collegescout/pkg/quality"
	"github.com/jmylchreest/collegescout/pkg/record"
	"github.com/jmylchreest/collegescout/pkg/region"
	"github.com/jmylchreest/collegescout/pkg/textutil"
)

// Field bounds.
const (
	MaxCourses        = 20
	MaxFacilities     = 15
	MaxImages         = 5
	MaxAddress        = 200
	MaxDescription    = 500
	MaxLocation       = 100
	MaxAffiliation    = 100
	MinItemLen        = 3
	MaxItemLen        = 100
	MinEstablished    = 1800
	locationWindowLen = 50
)

var (
	namePrefix   = regexp.MustCompile(`(?i)^(college of|institute of|university of)\s+`)
	nameSuffix   = regexp.MustCompile(`(?i)(\S)(college|institute|university)$`)
	pinCode      = regexp.MustCompile(`(?i)(pin\s*code|pincode|zip)[\s:]*\d{6}`)
	promotional  = regexp.MustCompile(`(?i)(click here|visit our website|contact us)`)
	yearPattern  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	cityWindows  = compileCityWindows()
	imageSuffix  = []string{".jpg", ".jpeg", ".png", ".webp"}
	affiliations = []string{
		"aicte", "ugc", "naac", "nba", "vtu", "bangalore university",
		"mysore university", "karnataka university", "mangalore university",
	}
)

func compileCityWindows() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(region.Cities))
	for _, city := range region.Cities {
		m[city] = regexp.MustCompile(fmt.Sprintf(`.{0,%d}%s.{0,%d}`, locationWindowLen, regexp.QuoteMeta(city), locationWindowLen))
	}
	return m
}

// Result is the outcome of cleaning one record. A degraded result still
// carries a valid Record.
type Result struct {
	Record   record.CanonicalRecord
	Degraded bool
	Reason   string
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithClock sets the time source used for ProcessedAt and the upper bound of
// valid establishment years.
func WithClock(now func() time.Time) Option {
	return func(c *Cleaner) {
		if now != nil {
			c.now = now
		}
	}
}

// Cleaner holds the classification tables and clock. Use New; a zero Cleaner
// has no tables, so every record it cleans comes back degraded.
type Cleaner struct {
	courses    *classify.Table
	facilities *classify.Table
	now        func() time.Time
}

// New creates a cleaner using the standard course and facility tables.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{
		courses:    classify.Courses,
		facilities: classify.Facilities,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCleaner = New()

// Clean cleans raw with the default cleaner.
func Clean(raw record.RawRecord) record.CanonicalRecord {
	return defaultCleaner.Clean(raw)
}

// CleanResult cleans raw with the default cleaner and reports degradation.
func CleanResult(raw record.RawRecord) Result {
	return defaultCleaner.CleanResult(raw)
}

// Clean returns the canonical form of raw. It never panics.
func (c *Cleaner) Clean(raw record.RawRecord) record.CanonicalRecord {
	return c.CleanResult(raw).Record
}

// CleanResult returns the canonical form of raw, or the minimal record with
// Degraded set when cleaning faults.
func (c *Cleaner) CleanResult(raw record.RawRecord) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Record:   c.Minimal(raw),
				Degraded: true,
				Reason:   fmt.Sprint(r),
			}
		}
	}()
	return Result{Record: c.clean(raw)}
}

func (c *Cleaner) clean(raw record.RawRecord) record.CanonicalRecord {
	now := c.clock()

	out := record.CanonicalRecord{
		Name:        Name(raw.Name),
		Location:    Location(raw.Location),
		Address:     Address(raw.Address),
		Phones:      Phones(raw.Phones),
		Emails:      Emails(raw.Emails),
		Website:     Website(raw.Website),
		Courses:     categorize(raw.Courses, c.courses, MaxCourses),
		Facilities:  categorize(raw.Facilities, c.facilities, MaxFacilities),
		Description: Description(raw.Description),
		Established: established(raw.Established, now.Year()),
		Affiliation: Affiliation(raw.Affiliation),
		SourceURL:   strings.TrimSpace(raw.SourceURL),
		Images:      Images(raw.Images),
		ProcessedAt: now,
	}

	out.CollegeType = collegeType(out.Courses, c.courses)
	out.LocationInfo = region.Details(out.Location)
	out.CompletenessScore = quality.CompletenessScore(out)
	out.DataQuality = quality.Assess(out)
	return out
}

// Minimal builds the degraded record: name, location, description and source
// URL carried over best-effort, every collection empty.
func (c *Cleaner) Minimal(raw record.RawRecord) record.CanonicalRecord {
	name := textutil.CollapseSpace(raw.Name)
	if name == "" {
		name = record.UnknownName
	}
	return record.CanonicalRecord{
		Name:              name,
		Location:          textutil.Truncate(textutil.CollapseSpace(raw.Location), MaxLocation),
		Phones:            []string{},
		Emails:            []string{},
		Courses:           emptyCategorized(),
		Facilities:        emptyCategorized(),
		Description:       textutil.Truncate(textutil.CollapseSpace(raw.Description), MaxDescription),
		SourceURL:         raw.SourceURL,
		Images:            []string{},
		CollegeType:       record.DefaultCollegeType,
		LocationInfo:      record.LocationInfo{State: region.State},
		CompletenessScore: 0.1,
		DataQuality:       quality.Degraded(),
		ProcessedAt:       c.clock(),
	}
}

func (c *Cleaner) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Name normalizes an institution name. The result is never empty.
func Name(name string) string {
	name = textutil.NormalizeText(name)
	name = namePrefix.ReplaceAllString(name, "")
	name = nameSuffix.ReplaceAllString(name, "$1 $2")
	name = textutil.CollapseSpace(name)
	if name == "" {
		return record.UnknownName
	}
	if isUniformCase(name) {
		name = cases.Title(language.Und).String(name)
	}
	return name
}

// isUniformCase reports whether s has cased letters that are all upper or
// all lower.
func isUniformCase(s string) bool {
	var upper, lower bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	return upper != lower
}

// Location normalizes location text. When a known city is present the result
// is the window of context around its first occurrence; otherwise the text is
// cut to MaxLocation.
func Location(location string) string {
	location = textutil.NormalizeText(location)
	if location == "" {
		return ""
	}

	if city, ok := region.FindCity(location); ok {
		lower := strings.ToLower(location)
		if loc := cityWindows[city].FindStringIndex(lower); loc != nil {
			window := lower[loc[0]:loc[1]]
			// keep the original casing when lower-casing preserved byte offsets
			if len(lower) == len(location) {
				window = location[loc[0]:loc[1]]
			}
			return textutil.NormalizeText(window)
		}
	}
	return textutil.Truncate(location, MaxLocation)
}

// Address normalizes an address, removes PIN/ZIP codes and cuts it to
// MaxAddress.
func Address(address string) string {
	address = textutil.NormalizeText(address)
	address = pinCode.ReplaceAllString(address, "")
	address = textutil.CollapseSpace(address)
	return textutil.Truncate(address, MaxAddress)
}

// Phones normalizes, de-duplicates and caps phone numbers.
func Phones(phones []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, p := range phones {
		normalized, ok := textutil.NormalizePhoneNumber(p)
		if !ok || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
		if len(out) == textutil.MaxPhones {
			break
		}
	}
	return out
}

// Emails lower-cases, validates, de-duplicates and caps email addresses.
func Emails(emails []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if !textutil.ValidateEmail(e) || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == textutil.MaxEmails {
			break
		}
	}
	return out
}

// Website prepends https:// when no scheme is present and returns the URL if
// it has a host, else "".
func Website(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	// "host:8080" parses with scheme "host", so a scheme only counts when
	// it is followed by ://
	if u, err := url.Parse(website); err != nil || u.Scheme == "" || !strings.Contains(website, "://") {
		website = "https://" + website
	}
	if !textutil.ValidateURL(website) {
		return ""
	}
	return website
}

func categorize(items []string, table *classify.Table, limit int) record.Categorized {
	out := emptyCategorized()

	// only the flat list is capped; categories count every kept item
	seen := make(map[string]bool)
	for _, item := range items {
		item = textutil.NormalizeText(item)
		if len(item) < MinItemLen || len(item) > MaxItemLen || seen[item] {
			continue
		}
		seen[item] = true
		out.TotalCount++
		cat := table.Classify(item)
		out.Categories[cat] = append(out.Categories[cat], item)
		if len(out.Items) < limit {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

func emptyCategorized() record.Categorized {
	return record.Categorized{
		Items:      []string{},
		Categories: map[string][]string{},
	}
}

// Courses cleans and categorizes course labels.
func Courses(items []string) record.Categorized {
	return categorize(items, classify.Courses, MaxCourses)
}

// Facilities cleans and categorizes facility labels.
func Facilities(items []string) record.Categorized {
	return categorize(items, classify.Facilities, MaxFacilities)
}

// Description normalizes a description, removes promotional phrases and
// bounds it to MaxDescription, preferring a sentence boundary.
func Description(description string) string {
	description = textutil.NormalizeText(description)
	description = promotional.ReplaceAllString(description, "")
	description = textutil.CollapseSpace(description)
	if len(description) <= MaxDescription {
		return description
	}

	var b strings.Builder
	for _, sentence := range strings.Split(description, ".") {
		if b.Len()+len(sentence)+1 > MaxDescription {
			break
		}
		b.WriteString(sentence)
		b.WriteByte('.')
	}
	if b.Len() == 0 {
		return textutil.Truncate(description, MaxDescription)
	}
	return strings.TrimSpace(b.String())
}

// Established extracts a four digit year between 1800 and the current year.
func Established(raw string) string {
	return established(raw, time.Now().Year())
}

func established(raw string, currentYear int) string {
	match := yearPattern.FindString(raw)
	if match == "" {
		return ""
	}
	year, err := strconv.Atoi(match)
	if err != nil || year < MinEstablished || year > currentYear {
		return ""
	}
	return match
}

// Affiliation keeps recognized accreditation text verbatim, otherwise keeps
// text up to MaxAffiliation and drops anything longer.
func Affiliation(affiliation string) string {
	affiliation = textutil.NormalizeText(affiliation)
	if affiliation == "" {
		return ""
	}
	lower := strings.ToLower(affiliation)
	for _, kw := range affiliations {
		if strings.Contains(lower, kw) {
			return affiliation
		}
	}
	if len(affiliation) <= MaxAffiliation {
		return affiliation
	}
	return ""
}

// Images keeps absolute http(s) image URLs with a recognized extension,
// de-duplicated and capped.
func Images(images []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, img := range images {
		img = strings.TrimSpace(img)
		if !IsImageURL(img) || seen[img] {
			continue
		}
		seen[img] = true
		out = append(out, img)
		if len(out) == MaxImages {
			break
		}
	}
	return out
}

// IsImageURL reports whether s is an absolute http(s) URL containing a
// recognized image extension.
func IsImageURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	lower := strings.ToLower(s)
	for _, ext := range imageSuffix {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// collegeType is the category with the most courses. Ties go to the category
// declared first in the table.
func collegeType(courses record.Categorized, table *classify.Table) string {
	best, bestCount := record.DefaultCollegeType, 0
	for _, cat := range table.Categories() {
		if n := len(courses.Categories[cat]); n > bestCount {
			best, bestCount = cat, n
		}
	}
	return best
}
