package clean

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/collegescout/pkg/classify"
	"github.com/jmylchreest/collegescout/pkg/record"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestCleaner() *Cleaner {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func sampleRaw() record.RawRecord {
	return record.RawRecord{
		Name:        "RV COLLEGE OF ENGINEERING",
		Location:    "Located on Mysore Road, R.V. Vidyaniketan Post, Bangalore, Karnataka, the campus spans 52 acres",
		Address:     "Mysore Road, Bangalore - 560059, Pin Code: 560059",
		Phones:      []string{"+91 98765 43210", "09876543210", "080-23456789", "12"},
		Emails:      []string{"Principal@RVCE.edu.in", "principal@rvce.edu.in", "not-an-email"},
		Website:     "rvce.edu.in",
		Courses:     []string{"B.Tech Computer Science", "MBA Finance", "Painting Workshop", "BE Civil", "ab"},
		Facilities:  []string{"Central Library", "Boys Hostel", "Gym"},
		Description: "RV College is a premier institution. Click here to apply today.",
		Established: "Estd. 1963",
		Affiliation: "Affiliated to VTU, approved by AICTE",
		SourceURL:   "https://rvce.edu.in/about",
		Images:      []string{"https://rvce.edu.in/logo.png", "/relative.png", "https://rvce.edu.in/doc.pdf"},
	}
}

// --- Scenario Tests ---

func TestClean_CourseCategories(t *testing.T) {
	got := newTestCleaner().Clean(record.RawRecord{
		Courses: []string{"B.Tech Computer Science", "MBA Finance", "Painting Workshop"},
	})

	want := map[string][]string{
		"Computer Science": {"B.Tech Computer Science"},
		"Management":       {"MBA Finance"},
		classify.Other:     {"Painting Workshop"},
	}
	if !reflect.DeepEqual(got.Courses.Categories, want) {
		t.Errorf("Courses.Categories = %v, want %v", got.Courses.Categories, want)
	}
}

func TestClean_EstablishedOutOfRange(t *testing.T) {
	got := newTestCleaner().Clean(record.RawRecord{Established: "Estd. 2999"})
	if got.Established != "" {
		t.Errorf("Established = %q, want empty", got.Established)
	}
}

func TestClean_NameOnlyScores(t *testing.T) {
	got := newTestCleaner().Clean(record.RawRecord{Name: "Test College"})
	if got.CompletenessScore != 0.20 {
		t.Errorf("CompletenessScore = %v, want 0.20", got.CompletenessScore)
	}
	if got.DataQuality.Completeness != 0.20 {
		t.Errorf("DataQuality.Completeness = %v, want 0.20", got.DataQuality.Completeness)
	}
}

func TestClean_WebsiteScheme(t *testing.T) {
	got := newTestCleaner().Clean(record.RawRecord{Website: "example.edu.in"})
	if got.Website != "https://example.edu.in" {
		t.Errorf("Website = %q, want %q", got.Website, "https://example.edu.in")
	}
}

func TestClean_PhoneNormalization(t *testing.T) {
	got := newTestCleaner().Clean(record.RawRecord{Phones: []string{"+91 98765 43210", "09876543210"}})
	want := []string{"+91-98765-43210"}
	if !reflect.DeepEqual(got.Phones, want) {
		t.Errorf("Phones = %v, want %v", got.Phones, want)
	}
}

// --- Field Tests ---

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", record.UnknownName},
		{"   ", record.UnknownName},
		{"RV COLLEGE OF ENGINEERING", "Rv College Of Engineering"},
		{"college of engineering, hassan", "Engineering, Hassan"},
		{"Institute of   Management Studies", "Management Studies"},
		{"NitteCollege", "Nitte College"},
		{"St. Joseph's College", "St. Josephs College"},
		{"Bangalore University", "Bangalore University"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short with city", "Jayanagar, Bangalore", "Jayanagar, Bangalore"},
		{"no city truncated", strings.Repeat("x", 150), strings.Repeat("x", 100)},
		{
			"window around city",
			strings.Repeat("a", 60) + " Mysore " + strings.Repeat("b", 60),
			strings.Repeat("a", 49) + " Mysore " + strings.Repeat("b", 49),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(tt.input); got != tt.want {
				t.Errorf("Location(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	got := Address("Mysore Road,   Bangalore Pincode: 560059")
	if got != "Mysore Road, Bangalore" {
		t.Errorf("Address() = %q", got)
	}
	if long := Address(strings.Repeat("word ", 100)); len(long) > MaxAddress {
		t.Errorf("Address() length = %d, want <= %d", len(long), MaxAddress)
	}
}

func TestDescription(t *testing.T) {
	if got := Description("Great college. Visit our website for more."); got != "Great college. for more." {
		t.Errorf("Description() = %q", got)
	}

	sentence := strings.Repeat("x", 90) + "."
	long := strings.Repeat(sentence, 8)
	got := Description(long)
	if len(got) > MaxDescription {
		t.Fatalf("Description() length = %d, want <= %d", len(got), MaxDescription)
	}
	if got != strings.Repeat(sentence, 5) {
		t.Errorf("Description() did not cut at a sentence boundary: %d chars", len(got))
	}

	// no sentence boundary fits, hard cut
	if got := Description(strings.Repeat("y", 700)); len(got) != MaxDescription {
		t.Errorf("Description() hard cut length = %d, want %d", len(got), MaxDescription)
	}
}

func TestEstablished(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Estd. 1963", "1963"},
		{"Founded in 2001 by trust", "2001"},
		{"Estd. 2999", ""},
		{"1799", ""},
		{"-1963", "1963"},
		{"year 12345", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := established(tt.input, fixedNow.Year()); got != tt.want {
				t.Errorf("established(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAffiliation(t *testing.T) {
	long := strings.Repeat("Affiliated body ", 10)
	if got := Affiliation(long); got != "" {
		t.Errorf("Affiliation(long) = %q, want empty", got)
	}
	withKeyword := long + "VTU"
	if got := Affiliation(withKeyword); got == "" {
		t.Error("Affiliation() dropped text with a recognized keyword")
	}
	if got := Affiliation("Autonomous"); got != "Autonomous" {
		t.Errorf("Affiliation() = %q", got)
	}
}

func TestImages(t *testing.T) {
	in := []string{
		"https://a.in/1.jpg", "https://a.in/1.jpg", "http://a.in/2.JPEG",
		"//a.in/3.png", "ftp://a.in/4.png", "https://a.in/doc.pdf",
		"https://a.in/5.webp", "https://a.in/6.png", "https://a.in/7.png", "https://a.in/8.png",
	}
	got := Images(in)
	want := []string{"https://a.in/1.jpg", "http://a.in/2.JPEG", "https://a.in/5.webp", "https://a.in/6.png", "https://a.in/7.png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Images() = %v, want %v", got, want)
	}
}

func TestCollegeType(t *testing.T) {
	tests := []struct {
		name    string
		courses []string
		want    string
	}{
		{"none", nil, record.DefaultCollegeType},
		{"majority", []string{"MBA Finance", "BBA", "BE Civil"}, "Management"},
		{"tie goes to first declared", []string{"MBA Finance", "BE Civil"}, "Engineering"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestCleaner().Clean(record.RawRecord{Courses: tt.courses})
			if got.CollegeType != tt.want {
				t.Errorf("CollegeType = %q, want %q", got.CollegeType, tt.want)
			}
		})
	}
}

func TestClean_CategoriesCountPastCap(t *testing.T) {
	var courses []string
	for i := range 20 {
		courses = append(courses, fmt.Sprintf("Painting Workshop %d", i))
	}
	for i := range 21 {
		courses = append(courses, fmt.Sprintf("MBA Finance %d", i))
	}

	got := newTestCleaner().Clean(record.RawRecord{Courses: courses})
	if len(got.Courses.Items) != MaxCourses {
		t.Errorf("len(Courses.Items) = %d, want %d", len(got.Courses.Items), MaxCourses)
	}
	if got.Courses.TotalCount != 41 {
		t.Errorf("Courses.TotalCount = %d, want 41", got.Courses.TotalCount)
	}
	if n := len(got.Courses.Categories["Management"]); n != 21 {
		t.Errorf("Management courses = %d, want 21", n)
	}
	if n := len(got.Courses.Categories[classify.Other]); n != 20 {
		t.Errorf("Other courses = %d, want 20", n)
	}
	if got.CollegeType != "Management" {
		t.Errorf("CollegeType = %q, want Management", got.CollegeType)
	}
}

func TestClean_FacilityCategoriesCountPastCap(t *testing.T) {
	var facilities []string
	for i := range 18 {
		facilities = append(facilities, fmt.Sprintf("Reading Room %d", i))
	}
	got := Facilities(facilities)
	if len(got.Items) != MaxFacilities || got.TotalCount != 18 {
		t.Errorf("Facilities() items = %d, total = %d", len(got.Items), got.TotalCount)
	}
	total := 0
	for _, items := range got.Categories {
		total += len(items)
	}
	if total != 18 {
		t.Errorf("Facilities() categorized %d items, want 18", total)
	}
}

func TestCourses_ExactDuplicatesOnly(t *testing.T) {
	got := Courses([]string{"MBA", "MBA", "  MBA ", "mba"})
	want := []string{"MBA", "mba"}
	if !reflect.DeepEqual(got.Items, want) {
		t.Errorf("Courses().Items = %v, want %v", got.Items, want)
	}
	if got.TotalCount != 2 || len(got.Categories["Management"]) != 2 {
		t.Errorf("Courses() = %+v", got)
	}
}

func TestWebsite(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"example.edu.in", "https://example.edu.in"},
		{"  http://rvce.edu.in  ", "http://rvce.edu.in"},
		{"https://rvce.edu.in/about", "https://rvce.edu.in/about"},
		{"ftp://x.com", "ftp://x.com"},
		{"rvce.edu.in:8080/home", "https://rvce.edu.in:8080/home"},
		{"https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Website(tt.input); got != tt.want {
				t.Errorf("Website(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_FullRecord(t *testing.T) {
	got := newTestCleaner().Clean(sampleRaw())

	if got.Name != "Rv College Of Engineering" {
		t.Errorf("Name = %q", got.Name)
	}
	// 080-23456789 drops its trunk zero and becomes 10 digits
	if want := []string{"+91-98765-43210", "+91-80234-56789"}; !reflect.DeepEqual(got.Phones, want) {
		t.Errorf("Phones = %v, want %v", got.Phones, want)
	}
	if want := []string{"principal@rvce.edu.in"}; !reflect.DeepEqual(got.Emails, want) {
		t.Errorf("Emails = %v, want %v", got.Emails, want)
	}
	if got.Website != "https://rvce.edu.in" {
		t.Errorf("Website = %q", got.Website)
	}
	if got.Courses.TotalCount != 4 || len(got.Courses.Items) != 4 {
		t.Errorf("Courses = %+v, want 4 items", got.Courses)
	}
	if got.Facilities.TotalCount != 3 {
		t.Errorf("Facilities.TotalCount = %d, want 3", got.Facilities.TotalCount)
	}
	if got.Established != "1963" {
		t.Errorf("Established = %q", got.Established)
	}
	if strings.Contains(strings.ToLower(got.Description), "click here") {
		t.Errorf("Description kept promotional text: %q", got.Description)
	}
	if want := []string{"https://rvce.edu.in/logo.png"}; !reflect.DeepEqual(got.Images, want) {
		t.Errorf("Images = %v, want %v", got.Images, want)
	}
	if got.LocationInfo.City != "Bangalore" || got.LocationInfo.Region != "South Karnataka" {
		t.Errorf("LocationInfo = %+v", got.LocationInfo)
	}
	if got.CompletenessScore != 1.0 {
		t.Errorf("CompletenessScore = %v, want 1.0", got.CompletenessScore)
	}
	if got.DataQuality.Accuracy != record.AccuracyHigh {
		t.Errorf("DataQuality.Accuracy = %q, want high", got.DataQuality.Accuracy)
	}
	if !got.ProcessedAt.Equal(fixedNow) {
		t.Errorf("ProcessedAt = %v, want %v", got.ProcessedAt, fixedNow)
	}
}

// --- Property Tests ---

func adversarialInputs() []record.RawRecord {
	many := make([]string, 60)
	for i := range many {
		many[i] = "Course number " + strings.Repeat("x", i%7) + string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	phones := make([]string, 20)
	for i := range phones {
		phones[i] = "98765432" + string(rune('0'+i/10)) + string(rune('0'+i%10))
	}
	emails := make([]string, 10)
	for i := range emails {
		emails[i] = string(rune('a'+i)) + "@college.edu"
	}
	images := make([]string, 12)
	for i := range images {
		images[i] = "https://img.in/" + string(rune('a'+i)) + ".png"
	}

	return []record.RawRecord{
		{},
		{Phones: []string{"", "++", "abc", "000000000000000"}},
		{Established: "-500"},
		{Established: "99999999"},
		{Website: "not a url at all ::"},
		{Website: "http://"},
		{
			Name:        strings.Repeat("N", 1000),
			Location:    strings.Repeat("L", 1000),
			Address:     strings.Repeat("A ", 1000),
			Phones:      phones,
			Emails:      emails,
			Courses:     many,
			Facilities:  many,
			Description: strings.Repeat("Long sentence here. ", 100),
			Images:      images,
		},
		sampleRaw(),
	}
}

func TestClean_Boundedness(t *testing.T) {
	c := newTestCleaner()
	for i, raw := range adversarialInputs() {
		got := c.Clean(raw)
		switch {
		case len(got.Phones) > 5:
			t.Errorf("input %d: %d phones", i, len(got.Phones))
		case len(got.Emails) > 3:
			t.Errorf("input %d: %d emails", i, len(got.Emails))
		case len(got.Courses.Items) > MaxCourses:
			t.Errorf("input %d: %d courses", i, len(got.Courses.Items))
		case len(got.Facilities.Items) > MaxFacilities:
			t.Errorf("input %d: %d facilities", i, len(got.Facilities.Items))
		case len(got.Images) > MaxImages:
			t.Errorf("input %d: %d images", i, len(got.Images))
		case len(got.Address) > MaxAddress:
			t.Errorf("input %d: address length %d", i, len(got.Address))
		case len(got.Description) > MaxDescription:
			t.Errorf("input %d: description length %d", i, len(got.Description))
		}
		for _, list := range [][]string{got.Phones, got.Emails, got.Courses.Items, got.Facilities.Items, got.Images} {
			seen := make(map[string]bool)
			for _, v := range list {
				if seen[v] {
					t.Errorf("input %d: duplicate %q", i, v)
				}
				seen[v] = true
			}
		}
	}
}

func TestClean_Totality(t *testing.T) {
	c := newTestCleaner()
	for i, raw := range adversarialInputs() {
		res := c.CleanResult(raw)
		if res.Degraded {
			t.Errorf("input %d: unexpected degradation: %s", i, res.Reason)
		}
		if res.Record.Name == "" {
			t.Errorf("input %d: empty name", i)
		}
		if res.Record.Established != "" && len(res.Record.Established) != 4 {
			t.Errorf("input %d: established = %q", i, res.Record.Established)
		}
	}
}

func TestClean_ScoreBounds(t *testing.T) {
	c := newTestCleaner()
	for i, raw := range adversarialInputs() {
		got := c.Clean(raw)
		if got.CompletenessScore < 0 || got.CompletenessScore > 1 {
			t.Errorf("input %d: completeness_score = %v", i, got.CompletenessScore)
		}
		if got.DataQuality.Completeness < 0 || got.DataQuality.Completeness > 1 {
			t.Errorf("input %d: data_quality.completeness = %v", i, got.DataQuality.Completeness)
		}
	}
}

func TestClean_CategoryNonEmptiness(t *testing.T) {
	c := newTestCleaner()
	for i, raw := range adversarialInputs() {
		got := c.Clean(raw)
		for _, cats := range []map[string][]string{got.Courses.Categories, got.Facilities.Categories} {
			for cat, items := range cats {
				if len(items) == 0 {
					t.Errorf("input %d: category %q is empty", i, cat)
				}
			}
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	c := newTestCleaner()
	inputs := []record.RawRecord{
		{},
		{Name: "Test College"},
		sampleRaw(),
		{
			Name:        "Mangalore Institute of Technology",
			Location:    "Moodbidri, Mangalore",
			Courses:     []string{"BE Mechanical", "MBA", "BSc Nursing"},
			Facilities:  []string{"Library", "Canteen"},
			Description: strings.Repeat("A sentence about the campus. ", 30),
			Website:     "https://mite.ac.in",
			SourceURL:   "https://mite.ac.in",
		},
	}

	for i, raw := range inputs {
		first := c.Clean(raw)
		second := c.Clean(first.ToRaw())
		if !reflect.DeepEqual(first, second) {
			t.Errorf("input %d: clean is not a fixed point\nfirst:  %+v\nsecond: %+v", i, first, second)
		}
	}
}

// --- Failure Policy Tests ---

func TestCleanResult_RecoversPanics(t *testing.T) {
	c := New(WithClock(func() time.Time { return fixedNow }))
	// a nil table makes classification panic during cleaning
	c.courses = nil

	res := c.CleanResult(record.RawRecord{
		Name:        "Broken College",
		Location:    "Hassan",
		Description: "desc",
		SourceURL:   "https://x.in",
		Courses:     []string{"MBA Finance"},
		Phones:      []string{"9876543210"},
	})

	if !res.Degraded {
		t.Fatal("CleanResult() did not report degradation")
	}
	if res.Reason == "" {
		t.Error("CleanResult() reason is empty")
	}

	got := res.Record
	if got.Name != "Broken College" || got.Location != "Hassan" || got.Description != "desc" || got.SourceURL != "https://x.in" {
		t.Errorf("minimal record lost carried fields: %+v", got)
	}
	if len(got.Phones) != 0 || len(got.Courses.Items) != 0 || len(got.Courses.Categories) != 0 {
		t.Errorf("minimal record has collections: %+v", got)
	}
	if got.CompletenessScore != 0.1 {
		t.Errorf("CompletenessScore = %v, want 0.1", got.CompletenessScore)
	}
	want := record.DataQuality{Completeness: 0.1, Accuracy: record.AccuracyLow, Freshness: "recent", Reliability: "low"}
	if got.DataQuality != want {
		t.Errorf("DataQuality = %+v, want %+v", got.DataQuality, want)
	}
	if got.CollegeType != record.DefaultCollegeType || got.LocationInfo.State != "Karnataka" {
		t.Errorf("CollegeType = %q, LocationInfo = %+v", got.CollegeType, got.LocationInfo)
	}
}

func TestCleanResult_ZeroCleaner(t *testing.T) {
	var c Cleaner
	res := c.CleanResult(record.RawRecord{Name: "Zero College", Courses: []string{"MBA"}})
	if !res.Degraded {
		t.Fatal("CleanResult() on a zero Cleaner did not degrade")
	}
	if res.Record.Name != "Zero College" || res.Record.ProcessedAt.IsZero() {
		t.Errorf("CleanResult() = %+v", res.Record)
	}
	if got := c.Clean(record.RawRecord{}); got.Name != record.UnknownName {
		t.Errorf("Clean() name = %q, want %q", got.Name, record.UnknownName)
	}
}

func TestMinimal_SentinelName(t *testing.T) {
	got := newTestCleaner().Minimal(record.RawRecord{})
	if got.Name != record.UnknownName {
		t.Errorf("Minimal().Name = %q, want %q", got.Name, record.UnknownName)
	}
}
