// Package record defines the institution records that flow through the
// extraction and normalization pipeline.
//
// A RawRecord is best-effort data from a single source (the HTML extractor,
// the known-institution lookup, or user input). A CanonicalRecord is the
// validated, bounded, categorized and scored form produced by package clean.
// Both are treated as immutable once produced.
package record

import "time"

// UnknownName is the sentinel name used when no name can be resolved.
const UnknownName = "Unknown College"

// DefaultCollegeType is used when no course category could be derived.
const DefaultCollegeType = "General"

// Accuracy grades how trustworthy the source of a record is.
type Accuracy string

const (
	AccuracyHigh   Accuracy = "high"
	AccuracyMedium Accuracy = "medium"
	AccuracyLow    Accuracy = "low"
)

// RawRecord is unvalidated institution data. All fields are optional.
type RawRecord struct {
	Name        string   `json:"name" yaml:"name"`
	Location    string   `json:"location" yaml:"location"`
	Address     string   `json:"address" yaml:"address"`
	Phones      []string `json:"phone" yaml:"phone"`
	Emails      []string `json:"email" yaml:"email"`
	Website     string   `json:"website" yaml:"website"`
	Courses     []string `json:"courses" yaml:"courses"`
	Facilities  []string `json:"facilities" yaml:"facilities"`
	Description string   `json:"description" yaml:"description"`
	Established string   `json:"established" yaml:"established"`
	Affiliation string   `json:"affiliation" yaml:"affiliation"`
	SourceURL   string   `json:"source_url" yaml:"source_url"`
	Images      []string `json:"images" yaml:"images"`

	// CollegeType is only set by the known-institution lookup. The cleaner
	// derives its own type from courses and ignores this value.
	CollegeType string `json:"college_type,omitempty" yaml:"college_type,omitempty"`
}

// IsMeaningful reports whether the record carries enough to be worth keeping:
// a name, at least one course, or a description.
func (r RawRecord) IsMeaningful() bool {
	return r.Name != "" || len(r.Courses) > 0 || r.Description != ""
}

// Categorized is a bounded item list plus its per-category grouping.
// Categories never contain an empty slice.
type Categorized struct {
	Items      []string            `json:"items" yaml:"items"`
	Categories map[string][]string `json:"categories" yaml:"categories"`
	TotalCount int                 `json:"total_count" yaml:"total_count"`
}

// UniqueCategories returns the number of non-empty categories.
func (c Categorized) UniqueCategories() int {
	return len(c.Categories)
}

// LocationInfo is derived from the cleaned location text.
type LocationInfo struct {
	City     string `json:"city" yaml:"city"`
	District string `json:"district" yaml:"district"`
	State    string `json:"state" yaml:"state"`
	Region   string `json:"region" yaml:"region"`
}

// DataQuality summarizes presence and source trust for a record.
type DataQuality struct {
	Completeness float64  `json:"completeness" yaml:"completeness"`
	Accuracy     Accuracy `json:"accuracy" yaml:"accuracy"`
	Freshness    string   `json:"freshness" yaml:"freshness"`
	Reliability  string   `json:"reliability" yaml:"reliability"`
}

// CanonicalRecord is the cleaner's output and the pipeline's stable contract.
type CanonicalRecord struct {
	Name              string       `json:"name" yaml:"name"`
	Location          string       `json:"location" yaml:"location"`
	Address           string       `json:"address" yaml:"address"`
	Phones            []string     `json:"phone" yaml:"phone"`
	Emails            []string     `json:"email" yaml:"email"`
	Website           string       `json:"website" yaml:"website"`
	Courses           Categorized  `json:"courses" yaml:"courses"`
	Facilities        Categorized  `json:"facilities" yaml:"facilities"`
	Description       string       `json:"description" yaml:"description"`
	Established       string       `json:"established" yaml:"established"`
	Affiliation       string       `json:"affiliation" yaml:"affiliation"`
	SourceURL         string       `json:"source_url" yaml:"source_url"`
	Images            []string     `json:"images" yaml:"images"`
	CollegeType       string       `json:"college_type" yaml:"college_type"`
	LocationInfo      LocationInfo `json:"location_info" yaml:"location_info"`
	CompletenessScore float64      `json:"completeness_score" yaml:"completeness_score"`
	DataQuality       DataQuality  `json:"data_quality" yaml:"data_quality"`
	ProcessedAt       time.Time    `json:"processed_at" yaml:"processed_at"`
}

// ToRaw re-serializes a canonical record into RawRecord shape, so it can be
// fed back through the cleaner.
func (c CanonicalRecord) ToRaw() RawRecord {
	return RawRecord{
		Name:        c.Name,
		Location:    c.Location,
		Address:     c.Address,
		Phones:      append([]string(nil), c.Phones...),
		Emails:      append([]string(nil), c.Emails...),
		Website:     c.Website,
		Courses:     append([]string(nil), c.Courses.Items...),
		Facilities:  append([]string(nil), c.Facilities.Items...),
		Description: c.Description,
		Established: c.Established,
		Affiliation: c.Affiliation,
		SourceURL:   c.SourceURL,
		Images:      append([]string(nil), c.Images...),
	}
}
