package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/jmylchreest/collegescout/pkg/pipeline"
)

// Summary report bounds.
const (
	topColleges   = 10
	maxNameWidth  = 50
	maxListErrors = 10
)

// SummaryReport renders the plain-text run summary. generated is printed as
// the report time.
func SummaryReport(r *pipeline.Report, generated time.Time) string {
	var b strings.Builder

	b.WriteString("\nCOLLEGE DATA SCRAPING SUMMARY REPORT\n")
	b.WriteString("====================================\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	b.WriteString("OVERVIEW\n--------\n")
	fmt.Fprintf(&b, "Total Colleges Processed: %d\n", r.Summary.TotalColleges)
	fmt.Fprintf(&b, "Successful Processing: %d\n", r.Summary.SuccessfulProcessing)
	fmt.Fprintf(&b, "Errors Encountered: %d\n", len(r.Errors))
	if r.Summary.ProcessingTime.IsZero() {
		b.WriteString("Processing Completed: Unknown\n")
	} else {
		fmt.Fprintf(&b, "Processing Completed: %s\n", r.Summary.ProcessingTime.Format(time.RFC3339))
		fmt.Fprintf(&b, "Processing Duration: %s\n",
			strings.TrimSpace(humanize.RelTime(r.Timestamp, r.Summary.ProcessingTime, "", "")))
	}

	b.WriteString("\nCOLLEGE BREAKDOWN\n-----------------\n")
	if len(r.Colleges) > 0 {
		writeTypeDistribution(&b, r.Colleges)
		writeCompleteness(&b, r.Colleges)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nERRORS ENCOUNTERED (%d):\n", len(r.Errors))
		for i, e := range r.Errors[:min(len(r.Errors), maxListErrors)] {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e)
		}
		if extra := len(r.Errors) - maxListErrors; extra > 0 {
			fmt.Fprintf(&b, "  ... and %d more errors\n", extra)
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	return b.String()
}

func writeTypeDistribution(b *strings.Builder, colleges []pipeline.Entry) {
	counts := make(map[string]int)
	for _, c := range colleges {
		t := c.RawData.CollegeType
		if t == "" {
			t = "Unknown"
		}
		counts[t]++
	}

	types := make([]string, 0, len(counts))
	width := 0
	for t := range counts {
		types = append(types, t)
		width = max(width, runewidth.StringWidth(t))
	}
	sort.Strings(types)

	b.WriteString("\nCollege Types:\n")
	for _, t := range types {
		fmt.Fprintf(b, "  %s %d\n", runewidth.FillRight(t+":", width+1), counts[t])
	}
}

func writeCompleteness(b *strings.Builder, colleges []pipeline.Entry) {
	var total float64
	for _, c := range colleges {
		total += c.RawData.CompletenessScore
	}
	fmt.Fprintf(b, "\nAverage Data Completeness: %.2f\n", total/float64(len(colleges)))

	ranked := append([]pipeline.Entry(nil), colleges...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RawData.CompletenessScore > ranked[j].RawData.CompletenessScore
	})

	fmt.Fprintf(b, "\nTop %d Colleges by Data Completeness:\n", topColleges)
	for i, c := range ranked[:min(len(ranked), topColleges)] {
		name := c.RawData.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(b, "  %2d. %s (Score: %.2f)\n", i+1,
			runewidth.Truncate(name, maxNameWidth, ""), c.RawData.CompletenessScore)
	}
}
