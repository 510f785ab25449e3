// Package quality scores how complete and how trustworthy a canonical record
// is. Scores are always in [0,1] and rounded to two decimals.
package quality

import (
	"math"
	"strings"

	"github.com/jmylchreest/collegescout/pkg/record"
)

// Field weights for CompletenessScore. They sum to 1.
const (
	WeightName        = 0.20
	WeightLocation    = 0.15
	WeightPhone       = 0.15
	WeightEmail       = 0.10
	WeightCourses     = 0.20
	WeightFacilities  = 0.10
	WeightDescription = 0.10
)

var (
	educationalMarkers = []string{".edu", ".ac.in", ".gov.in"}
	directoryMarkers   = []string{"careers360", "collegedunia", "shiksha"}
)

// CompletenessScore sums the weights of the non-empty fields.
func CompletenessScore(c record.CanonicalRecord) float64 {
	var score float64
	if c.Name != "" {
		score += WeightName
	}
	if c.Location != "" {
		score += WeightLocation
	}
	if len(c.Phones) > 0 {
		score += WeightPhone
	}
	if len(c.Emails) > 0 {
		score += WeightEmail
	}
	if len(c.Courses.Items) > 0 {
		score += WeightCourses
	}
	if len(c.Facilities.Items) > 0 {
		score += WeightFacilities
	}
	if c.Description != "" {
		score += WeightDescription
	}
	return round2(clamp(score))
}

// Checklist returns the fraction of name, location, courses, phone and
// description that are present.
func Checklist(c record.CanonicalRecord) float64 {
	present := 0
	for _, ok := range []bool{
		c.Name != "",
		c.Location != "",
		len(c.Courses.Items) > 0,
		len(c.Phones) > 0,
		c.Description != "",
	} {
		if ok {
			present++
		}
	}
	return round2(float64(present) / 5)
}

// Accuracy grades a source URL: educational or government domains are high,
// known directory sites medium, anything else low.
func Accuracy(sourceURL string) record.Accuracy {
	switch {
	case containsAny(sourceURL, educationalMarkers):
		return record.AccuracyHigh
	case containsAny(sourceURL, directoryMarkers):
		return record.AccuracyMedium
	default:
		return record.AccuracyLow
	}
}

// Assess builds the data-quality block for c.
func Assess(c record.CanonicalRecord) record.DataQuality {
	return record.DataQuality{
		Completeness: Checklist(c),
		Accuracy:     Accuracy(c.SourceURL),
		Freshness:    "recent",
		Reliability:  "medium",
	}
}

// Degraded is the quality block attached to records that failed cleaning.
func Degraded() record.DataQuality {
	return record.DataQuality{
		Completeness: 0.1,
		Accuracy:     record.AccuracyLow,
		Freshness:    "recent",
		Reliability:  "low",
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
