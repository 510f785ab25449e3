// Package generate turns canonical college records into plain-language
// guidance for rural students using an LLM, with a fixed fallback payload when
// no model is reachable.
package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content is the narrative generated for one college.
type Content struct {
	Overview            string   `json:"overview" yaml:"overview"`
	KeyHighlights       []string `json:"key_highlights" yaml:"key_highlights"`
	CoursesSummary      string   `json:"courses_summary" yaml:"courses_summary"`
	AdmissionGuidance   string   `json:"admission_guidance" yaml:"admission_guidance"`
	FeesInformation     string   `json:"fees_information" yaml:"fees_information"`
	PlacementProspects  string   `json:"placement_prospects" yaml:"placement_prospects"`
	FacilitiesOverview  string   `json:"facilities_overview" yaml:"facilities_overview"`
	RuralStudentTips    string   `json:"rural_student_tips" yaml:"rural_student_tips"`
	ContactSummary      string   `json:"contact_summary" yaml:"contact_summary"`
	FinalRecommendation string   `json:"final_recommendation" yaml:"final_recommendation"`
}

// UnmarshalJSON accepts key_highlights as either a list or a single string;
// models return both.
func (c *Content) UnmarshalJSON(data []byte) error {
	type plain Content
	var aux struct {
		plain
		KeyHighlights json.RawMessage `json:"key_highlights"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Content(aux.plain)
	c.KeyHighlights = nil

	if len(aux.KeyHighlights) == 0 || string(aux.KeyHighlights) == "null" {
		return nil
	}
	if err := json.Unmarshal(aux.KeyHighlights, &c.KeyHighlights); err == nil {
		return nil
	}
	var single string
	if err := json.Unmarshal(aux.KeyHighlights, &single); err != nil {
		return fmt.Errorf("key_highlights: %w", err)
	}
	if single = strings.TrimSpace(single); single != "" {
		c.KeyHighlights = []string{single}
	}
	return nil
}

// IsEmpty reports whether no field carries text.
func (c Content) IsEmpty() bool {
	return c.Overview == "" && len(c.KeyHighlights) == 0 && c.CoursesSummary == "" &&
		c.AdmissionGuidance == "" && c.FeesInformation == "" && c.PlacementProspects == "" &&
		c.FacilitiesOverview == "" && c.RuralStudentTips == "" && c.ContactSummary == "" &&
		c.FinalRecommendation == ""
}

// Fallback is the payload used when generation is unavailable.
func Fallback() Content {
	return Content{
		Overview: "This college offers various educational programs for students.",
		KeyHighlights: []string{
			"Educational institution in Karnataka",
			"Offers multiple courses",
			"Has basic facilities for students",
		},
		CoursesSummary:      "The college offers various undergraduate and postgraduate courses. Students can choose based on their interests and career goals.",
		AdmissionGuidance:   "Contact the college directly for admission information. Visit their office or call the provided phone numbers.",
		FeesInformation:     "Fee structure varies by course. Contact the college for detailed fee information and scholarship opportunities.",
		PlacementProspects:  "The college helps students find job opportunities after graduation. Career guidance is provided.",
		FacilitiesOverview:  "Basic educational facilities are available including classrooms, library, and computer labs.",
		RuralStudentTips:    "Rural students should prepare all documents in advance, learn about hostel facilities, and ask about financial assistance programs.",
		ContactSummary:      "Contact the college through the provided phone numbers and email addresses for more information.",
		FinalRecommendation: "This college can be a good option for students. Visit the campus and talk to current students before making a decision.",
	}
}

// FormatForStudents renders content as the sectioned plain-text guide shown
// on the terminal.
func FormatForStudents(name string, c Content) string {
	var b strings.Builder

	if name != "" {
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len([]rune(name))))
		b.WriteString("\n\n")
	}

	section := func(title, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	section("ABOUT THIS COLLEGE", c.Overview)
	if len(c.KeyHighlights) > 0 {
		b.WriteString("KEY HIGHLIGHTS\n")
		for _, h := range c.KeyHighlights {
			b.WriteString("  * ")
			b.WriteString(h)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	section("COURSES OFFERED", c.CoursesSummary)
	section("HOW TO APPLY", c.AdmissionGuidance)
	section("FEES AND FINANCIAL HELP", c.FeesInformation)
	section("JOBS AFTER GRADUATION", c.PlacementProspects)
	section("FACILITIES", c.FacilitiesOverview)
	section("TIPS FOR RURAL STUDENTS", c.RuralStudentTips)
	section("CONTACT", c.ContactSummary)
	section("OUR RECOMMENDATION", c.FinalRecommendation)

	return strings.TrimRight(b.String(), "\n") + "\n"
}
