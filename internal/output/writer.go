// Package output writes run reports and cleaned records to disk and streams.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/collegescout/pkg/pipeline"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// Format represents output format types.
type Format string

const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatYAML    Format = "yaml"
	FormatExcel   Format = "excel"
	FormatSummary Format = "summary"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML, FormatExcel, FormatSummary}

// ParseFormat resolves a format name, ignoring case. "xlsx" is accepted for
// excel and "txt" for summary.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatExcel, FormatSummary:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	case "txt":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// ParseFormats resolves a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Streamable reports whether f can be written to an arbitrary io.Writer.
func (f Format) Streamable() bool {
	return f == FormatJSON || f == FormatJSONL || f == FormatYAML
}

// Writer serializes items to a stream.
type Writer interface {
	// Write outputs a single item.
	Write(item any) error

	// Close writes anything still buffered.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	indent string
}

// WithIndent sets the JSON indentation. An empty indent writes compact JSON.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for a streamable format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{indent: "  "}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported stream format: %s", format)
	}
}

// WriteReport streams a report. JSON and YAML write the whole report as one
// document; JSONL writes one college entry per line.
func WriteReport(w io.Writer, format Format, report *pipeline.Report) error {
	wr, err := NewWriter(w, format)
	if err != nil {
		return err
	}
	if format == FormatJSONL {
		for _, e := range report.Colleges {
			if err := wr.Write(e); err != nil {
				return err
			}
		}
	} else if err := wr.Write(report); err != nil {
		return err
	}
	return wr.Close()
}

// WriteRecords streams cleaned records. JSON and YAML write a list.
func WriteRecords(w io.Writer, format Format, records []record.CanonicalRecord) error {
	wr, err := NewWriter(w, format)
	if err != nil {
		return err
	}
	if format == FormatJSONL {
		for _, r := range records {
			if err := wr.Write(r); err != nil {
				return err
			}
		}
	} else {
		if records == nil {
			records = []record.CanonicalRecord{}
		}
		if err := wr.Write(records); err != nil {
			return err
		}
	}
	return wr.Close()
}
