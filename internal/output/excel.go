package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jmylchreest/collegescout/pkg/pipeline"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// Workbook sheet names.
const (
	SheetSummary    = "Colleges Summary"
	SheetCourses    = "Courses Detail"
	SheetFacilities = "Facilities Detail"
)

var summaryHeaders = []string{
	"ID", "College Name", "Location", "Phone", "Email", "Website", "Established",
	"College Type", "Total Courses", "Total Facilities", "Completeness Score",
	"AI Overview", "AI Recommendation", "Source URL", "Processed At",
}

var coursesHeaders = []string{"College Name", "Category", "Course", "College ID"}

var facilitiesHeaders = []string{"College Name", "Category", "Facility", "College ID"}

// BuildWorkbook lays the colleges out over three sheets: one summary row per
// college, and one row per categorized course and facility. Detail sheets
// are only added when they have rows.
func BuildWorkbook(colleges []pipeline.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows := make([][]any, 0, len(colleges))
	for _, c := range colleges {
		raw := c.RawData
		ai := c.AIGenerated.AIGeneratedContent
		rows = append(rows, []any{
			c.ID,
			raw.Name,
			raw.Location,
			strings.Join(raw.Phones, ", "),
			strings.Join(raw.Emails, ", "),
			raw.Website,
			raw.Established,
			raw.CollegeType,
			raw.Courses.TotalCount,
			raw.Facilities.TotalCount,
			raw.CompletenessScore,
			ai.Overview,
			ai.FinalRecommendation,
			raw.SourceURL,
			c.ProcessedAt.Format(time.RFC3339),
		})
	}
	if err := writeSheet(f, SheetSummary, summaryHeaders, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	details := []struct {
		sheet   string
		headers []string
		pick    func(record.CanonicalRecord) record.Categorized
	}{
		{SheetCourses, coursesHeaders, func(r record.CanonicalRecord) record.Categorized { return r.Courses }},
		{SheetFacilities, facilitiesHeaders, func(r record.CanonicalRecord) record.Categorized { return r.Facilities }},
	}
	for _, d := range details {
		detail := categoryRows(colleges, d.pick)
		if len(detail) == 0 {
			continue
		}
		if _, err := f.NewSheet(d.sheet); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeSheet(f, d.sheet, d.headers, detail); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

// SaveWorkbook builds the workbook and writes it to path.
func SaveWorkbook(path string, colleges []pipeline.Entry) error {
	f, err := BuildWorkbook(colleges)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// categoryRows flattens one categorized field. Categories are sorted so the
// sheet is stable across runs.
func categoryRows(colleges []pipeline.Entry, pick func(record.CanonicalRecord) record.Categorized) [][]any {
	var rows [][]any
	for _, c := range colleges {
		cat := pick(c.RawData)
		names := make([]string, 0, len(cat.Categories))
		for name := range cat.Categories {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, item := range cat.Categories[name] {
				rows = append(rows, []any{c.RawData.Name, name, item, c.ID})
			}
		}
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
