package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/internal/output"
	"github.com/jmylchreest/collegescout/pkg/clean"
	"github.com/jmylchreest/collegescout/pkg/record"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize raw college records without fetching",
	Long: `Clean raw college records into canonical, scored records.

The input may be a single JSON object, a JSON array or JSON lines, using the
raw record fields (name, location, phone, email, courses, facilities, ...).

Examples:
  collegescout clean -i raw.json
  collegescout clean -i raw.jsonl -o clean.yaml --format yaml
  cat raw.json | collegescout clean -i -`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("input", "i", "", "raw record file, or - for stdin (required)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")

	_ = cleanCmd.MarkFlagRequired("input")
}

func runClean(cmd *cobra.Command, _ []string) error {
	if _, err := setup(); err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	if !format.Streamable() {
		return fmt.Errorf("format %s is not supported for cleaned records", format)
	}

	inPath, _ := cmd.Flags().GetString("input")
	in := io.Reader(os.Stdin)
	if inPath != "-" {
		f, err := os.Open(inPath) //#nosec G304 -- CLI tool reads a user-specified input file
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	raws, err := readRawRecords(in)
	if err != nil {
		return err
	}

	cleaner := clean.New()
	records := make([]record.CanonicalRecord, 0, len(raws))
	for i, raw := range raws {
		res := cleaner.CleanResult(raw)
		if res.Degraded {
			logger.Warn("cleaning degraded", "index", i, "name", raw.Name, "reason", res.Reason)
		}
		records = append(records, res.Record)
	}
	logger.Info("records cleaned", "count", len(records))

	outPath, _ := cmd.Flags().GetString("output")
	out, closeOut, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	return output.WriteRecords(out, format, records)
}

// readRawRecords decodes a JSON object, a JSON array or a stream of JSON
// objects (JSON lines).
func readRawRecords(r io.Reader) ([]record.RawRecord, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var raws []record.RawRecord
		if err := dec.Decode(&raws); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		return raws, nil
	}

	var raws []record.RawRecord
	for {
		var raw record.RawRecord
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return raws, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(raws)+1, err)
		}
		raws = append(raws, raw)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(b, " \t\r\n") {
			return b[0], nil
		}
		_, _ = br.ReadByte()
	}
}
