package generate

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/collegescout/pkg/record"
)

// SystemPrompt frames every generation request.
const SystemPrompt = "You are an expert educational counselor helping rural students understand college information. Respond in valid JSON format."

const notProvided = "Not provided"

// BuildPrompt renders the counselor prompt for one college.
func BuildPrompt(c record.CanonicalRecord) string {
	var b strings.Builder

	b.WriteString("You are an educational counselor helping rural students understand college information.\n")
	b.WriteString("Create comprehensive, easy-to-understand content about this college in simple language.\n\n")

	b.WriteString("COLLEGE DATA:\n")
	fmt.Fprintf(&b, "College Name: %s\n", orNotProvided(c.Name))
	fmt.Fprintf(&b, "Location: %s\n", orNotProvided(c.Location))
	fmt.Fprintf(&b, "Courses: %s\n", strings.Join(c.Courses.Items, ", "))
	fmt.Fprintf(&b, "Facilities: %s\n", strings.Join(c.Facilities.Items, ", "))
	fmt.Fprintf(&b, "Established: %s\n", orNotProvided(c.Established))
	fmt.Fprintf(&b, "Description: %s\n", orNotProvided(c.Description))
	fmt.Fprintf(&b, "Phone: %s\n", strings.Join(c.Phones, ", "))
	fmt.Fprintf(&b, "Email: %s\n", strings.Join(c.Emails, ", "))
	fmt.Fprintf(&b, "Website: %s\n\n", orNotProvided(c.Website))

	b.WriteString(`REQUIREMENTS:
1. Write in simple, clear language that rural students can easily understand
2. Explain technical terms and abbreviations
3. Focus on practical information that helps with decision-making
4. Include specific guidance for rural students
5. Mention financial considerations and scholarship opportunities
6. Provide actionable next steps

OUTPUT FORMAT (JSON):
{
    "overview": "A simple 2-3 sentence introduction about the college",
    "key_highlights": ["3-5 main points about why this college is good"],
    "courses_summary": "Easy explanation of what courses they offer and what students will learn",
    "admission_guidance": "Simple steps on how to apply, what documents needed, important dates",
    "fees_information": "What it might cost and financial help available",
    "placement_prospects": "Job opportunities after graduation in simple terms",
    "facilities_overview": "What facilities are available for students",
    "rural_student_tips": "Specific advice for students from rural areas",
    "contact_summary": "How to contact the college with phone numbers and addresses",
    "final_recommendation": "Overall assessment and recommendation for rural students"
}

Generate comprehensive, helpful content that empowers rural students to make informed decisions.
`)
	return b.String()
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

// StripCodeFence removes a surrounding ```json or ``` markdown fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	default:
		return s
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
