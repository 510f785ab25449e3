package generate

import (
	"strings"

	"github.com/jmylchreest/collegescout/pkg/classify"
	"github.com/jmylchreest/collegescout/pkg/quality"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// Enhanced wraps generated content with structured facts and rural-student
// guidance derived from the record.
type Enhanced struct {
	AIGeneratedContent   Content        `json:"ai_generated_content" yaml:"ai_generated_content"`
	StructuredData       StructuredData `json:"structured_data" yaml:"structured_data"`
	RuralStudentSpecific RuralStudent   `json:"rural_student_specific" yaml:"rural_student_specific"`
	ContentQuality       ContentQuality `json:"content_quality" yaml:"content_quality"`
}

type StructuredData struct {
	BasicInfo      BasicInfo      `json:"basic_info" yaml:"basic_info"`
	ContactDetails ContactDetails `json:"contact_details" yaml:"contact_details"`
	AcademicInfo   AcademicInfo   `json:"academic_info" yaml:"academic_info"`
	Facilities     FacilityInfo   `json:"facilities" yaml:"facilities"`
	Multimedia     Multimedia     `json:"multimedia" yaml:"multimedia"`
}

type BasicInfo struct {
	Name        string `json:"name" yaml:"name"`
	Location    string `json:"location" yaml:"location"`
	Established string `json:"established" yaml:"established"`
	Website     string `json:"website" yaml:"website"`
	SourceURL   string `json:"source_url" yaml:"source_url"`
}

type ContactDetails struct {
	Phones  []string `json:"phones" yaml:"phones"`
	Emails  []string `json:"emails" yaml:"emails"`
	Address string   `json:"address" yaml:"address"`
}

type AcademicInfo struct {
	CoursesOffered []string `json:"courses_offered" yaml:"courses_offered"`
	TotalCourses   int      `json:"total_courses" yaml:"total_courses"`
	Departments    []string `json:"departments" yaml:"departments"`
}

type FacilityInfo struct {
	AvailableFacilities   []string            `json:"available_facilities" yaml:"available_facilities"`
	TotalFacilities       int                 `json:"total_facilities" yaml:"total_facilities"`
	CategorizedFacilities map[string][]string `json:"categorized_facilities" yaml:"categorized_facilities"`
}

type Multimedia struct {
	Images      []string `json:"images" yaml:"images"`
	TotalImages int      `json:"total_images" yaml:"total_images"`
}

// RuralStudent is guidance aimed at first-generation and rural applicants.
type RuralStudent struct {
	AccessibilityScore      int               `json:"accessibility_score" yaml:"accessibility_score"`
	FinancialConsiderations map[string]string `json:"financial_considerations" yaml:"financial_considerations"`
	SupportSystems          []string          `json:"support_systems" yaml:"support_systems"`
	PracticalTips           []string          `json:"practical_tips" yaml:"practical_tips"`
}

type ContentQuality struct {
	CompletenessScore   float64 `json:"completeness_score" yaml:"completeness_score"`
	InformationRichness int     `json:"information_richness" yaml:"information_richness"`
	DataReliability     string  `json:"data_reliability" yaml:"data_reliability"`
}

// departments is broader than classify.Courses: a course may count towards
// several departments.
var departments = classify.NewTable(
	classify.Rule{Category: "Engineering", Keywords: []string{"engineering", "btech", "mtech", "be", "me"}},
	classify.Rule{Category: "Medical", Keywords: []string{"medical", "mbbs", "md", "nursing", "pharmacy"}},
	classify.Rule{Category: "Management", Keywords: []string{"mba", "management", "business", "bba"}},
	classify.Rule{Category: "Arts", Keywords: []string{"ba", "ma", "arts", "literature", "english"}},
	classify.Rule{Category: "Science", Keywords: []string{"bsc", "msc", "science", "physics", "chemistry", "biology"}},
	classify.Rule{Category: "Commerce", Keywords: []string{"bcom", "mcom", "commerce", "accounting", "finance"}},
	classify.Rule{Category: "Computer Science", Keywords: []string{"computer", "it", "software", "bca", "mca"}},
	classify.Rule{Category: "Law", Keywords: []string{"law", "llb", "llm", "legal"}},
)

var facilityGroups = classify.NewTable(
	classify.Rule{Category: "Academic", Keywords: []string{"library", "lab", "classroom", "auditorium", "seminar"}},
	classify.Rule{Category: "Accommodation", Keywords: []string{"hostel", "accommodation", "dormitory", "residence"}},
	classify.Rule{Category: "Recreation", Keywords: []string{"sports", "gym", "playground", "canteen", "cafeteria"}},
	classify.Rule{Category: "Technology", Keywords: []string{"computer", "wifi", "internet", "projector", "smart"}},
	classify.Rule{Category: "Healthcare", Keywords: []string{"medical", "health", "clinic", "infirmary", "first aid"}},
)

// Enhance combines content with facts derived from c.
func Enhance(content Content, c record.CanonicalRecord) Enhanced {
	courses := nonNil(c.Courses.Items)
	facilities := nonNil(c.Facilities.Items)
	images := nonNil(c.Images)

	return Enhanced{
		AIGeneratedContent: content,
		StructuredData: StructuredData{
			BasicInfo: BasicInfo{
				Name:        c.Name,
				Location:    c.Location,
				Established: c.Established,
				Website:     c.Website,
				SourceURL:   c.SourceURL,
			},
			ContactDetails: ContactDetails{
				Phones:  nonNil(c.Phones),
				Emails:  nonNil(c.Emails),
				Address: c.Address,
			},
			AcademicInfo: AcademicInfo{
				CoursesOffered: courses,
				TotalCourses:   len(courses),
				Departments:    Departments(courses),
			},
			Facilities: FacilityInfo{
				AvailableFacilities:   facilities,
				TotalFacilities:       len(facilities),
				CategorizedFacilities: facilityGroups.Group(facilities),
			},
			Multimedia: Multimedia{
				Images:      images,
				TotalImages: len(images),
			},
		},
		RuralStudentSpecific: RuralStudent{
			AccessibilityScore:      AccessibilityScore(c),
			FinancialConsiderations: financialConsiderations(),
			SupportSystems:          supportSystems(facilities),
			PracticalTips:           practicalTips(c),
		},
		ContentQuality: ContentQuality{
			CompletenessScore:   quality.Checklist(c),
			InformationRichness: InformationRichness(c),
			DataReliability:     "medium",
		},
	}
}

// Departments lists every department any course belongs to, in declaration
// order.
func Departments(courses []string) []string {
	seen := make(map[string]bool)
	for _, course := range courses {
		for _, dept := range departments.Matches(course) {
			seen[dept] = true
		}
	}

	out := []string{}
	for _, dept := range departments.Categories() {
		if seen[dept] {
			out = append(out, dept)
		}
	}
	return out
}

// AccessibilityScore rates 1-10 how reachable a college is for a rural
// applicant: base 5, plus one each for phone, email, location, more than five
// courses and more than three facilities.
func AccessibilityScore(c record.CanonicalRecord) int {
	score := 5
	for _, ok := range []bool{
		len(c.Phones) > 0,
		len(c.Emails) > 0,
		c.Location != "",
		len(c.Courses.Items) > 5,
		len(c.Facilities.Items) > 3,
	} {
		if ok {
			score++
		}
	}
	return min(score, 10)
}

// InformationRichness counts the record's non-empty content fields.
func InformationRichness(c record.CanonicalRecord) int {
	r := c.ToRaw()
	n := 0
	for _, s := range []string{r.Name, r.Location, r.Address, r.Website, r.Description, r.Established, r.Affiliation, r.SourceURL, c.CollegeType} {
		if s != "" {
			n++
		}
	}
	for _, l := range [][]string{r.Phones, r.Emails, r.Courses, r.Facilities, r.Images} {
		if len(l) > 0 {
			n++
		}
	}
	return n
}

func financialConsiderations() map[string]string {
	return map[string]string{
		"fee_transparency":      "Contact college for detailed fee structure",
		"scholarship_potential": "Check for government and merit-based scholarships",
		"hidden_costs":          "Ask about additional fees for labs, library, and activities",
		"payment_options":       "Inquire about installment payment options",
	}
}

func supportSystems(facilities []string) []string {
	out := []string{
		"Contact college counselor for guidance",
		"Look for senior student mentorship programs",
		"Check for language support if needed",
	}
	for _, f := range facilities {
		lower := strings.ToLower(f)
		if strings.Contains(lower, "hostel") {
			out = append(out, "Hostel accommodation available")
		}
		if strings.Contains(lower, "transport") {
			out = append(out, "Transportation services may be available")
		}
	}
	return out
}

func practicalTips(c record.CanonicalRecord) []string {
	tips := []string{
		"Visit the college campus before admission if possible",
		"Prepare all documents in advance (10th, 12th marks, certificates)",
		"Learn basic English if courses are taught in English",
		"Budget for living expenses beyond tuition fees",
		"Connect with other students from your region",
	}
	if len(c.Phones) > 0 {
		tips = append(tips, "Call the college directly to clarify any doubts")
	}
	if c.Website != "" {
		tips = append(tips, "Check the college website regularly for updates")
	}
	return tips
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
