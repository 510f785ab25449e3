package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/pkg/pipeline"
)

// DefaultFormats are written when a run names none.
var DefaultFormats = []Format{FormatJSON, FormatExcel, FormatSummary}

const timestampLayout = "20060102_150405"

// Save writes report into dir in each format and returns the written paths
// in format order. Files are named after the report timestamp. The workbook
// is skipped when there are no colleges.
func Save(dir string, report *pipeline.Report, formats []Format) ([]string, error) {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := report.Timestamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	ts := stamp.Format(timestampLayout)

	var paths []string
	for _, f := range formats {
		var path string
		var err error

		switch f {
		case FormatJSON, FormatJSONL, FormatYAML:
			path = filepath.Join(dir, fmt.Sprintf("college_data_%s.%s", ts, f))
			err = writeFile(path, func(file *os.File) error { return WriteReport(file, f, report) })
		case FormatExcel:
			if len(report.Colleges) == 0 {
				continue
			}
			path = filepath.Join(dir, fmt.Sprintf("college_data_%s.xlsx", ts))
			err = SaveWorkbook(path, report.Colleges)
		case FormatSummary:
			generated := report.Summary.ProcessingTime
			if generated.IsZero() {
				generated = time.Now()
			}
			path = filepath.Join(dir, fmt.Sprintf("summary_report_%s.txt", ts))
			err = os.WriteFile(path, []byte(SummaryReport(report, generated)), 0o644)
		default:
			err = fmt.Errorf("unsupported output format: %s", f)
		}

		if err != nil {
			return paths, fmt.Errorf("save %s: %w", f, err)
		}
		logger.Info("results saved", "format", string(f), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
