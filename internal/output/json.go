package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers items and writes them as one JSON document on Close: a
// single item as itself, anything else as an array.
type JSONWriter struct {
	w      *bufio.Writer
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
	}
}

// Write buffers a single item.
func (w *JSONWriter) Write(item any) error {
	w.items = append(w.items, item)
	return nil
}

// Close encodes the buffered items.
func (w *JSONWriter) Close() error {
	var doc any = w.items
	switch len(w.items) {
	case 0:
		doc = []any{}
	case 1:
		doc = w.items[0]
	}

	if err := newJSONEncoder(w.w, w.indent).Encode(doc); err != nil {
		return err
	}
	w.items = nil
	return w.w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL).
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{
		w:   bw,
		enc: newJSONEncoder(bw, ""),
	}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(item any) error {
	if err := w.enc.Encode(item); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}

// newJSONEncoder leaves &, < and > unescaped so URLs stay readable.
func newJSONEncoder(w io.Writer, indent string) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}
