package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/internal/output"
	"github.com/jmylchreest/collegescout/pkg/generate"
	"github.com/jmylchreest/collegescout/pkg/lookup"
	"github.com/jmylchreest/collegescout/pkg/pipeline"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// searchCandidates is how many search results are tried for an unknown name.
const searchCandidates = 3

var lookupCmd = &cobra.Command{
	Use:   "lookup [name]",
	Short: "Look up a college by name",
	Long: `Look up a college in the built-in table of well-known Karnataka
institutions. Names are matched loosely, so "bmsc", "BMS College" and
"b.m.s. college of engineering" all resolve to the same college.

Colleges missing from the table are searched for on the web, then tried at
common official domains.

Examples:
  collegescout lookup "IISc"
  collegescout lookup "BMS College" --fetch --generate
  collegescout lookup --list --type Engineering`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	flags := lookupCmd.Flags()
	flags.Bool("fetch", false, "scrape the official website and merge it with the table entry")
	flags.Bool("generate", false, "generate student guidance with an LLM")
	flags.Bool("list", false, "list known colleges")
	flags.String("type", "", "with --list, only colleges of this type (e.g., Engineering, Medical)")
	flags.String("format", "text", "output format: text, json, yaml")
}

// pageScraper scrapes one page into a raw record.
type pageScraper interface {
	Scrape(ctx context.Context, url string) (record.RawRecord, error)
}

// webSearcher returns candidate college URLs for a query.
type webSearcher interface {
	Search(ctx context.Context, term string, limit int, skip crawler.Visited) ([]string, error)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		collegeType, _ := cmd.Flags().GetString("type")
		return listColleges(out, collegeType)
	}

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return cmd.Help()
	}

	formatStr, _ := cmd.Flags().GetString("format")
	if formatStr != "text" {
		f, err := output.ParseFormat(formatStr)
		if err != nil || !f.Streamable() {
			return fmt.Errorf("unsupported lookup format: %s", formatStr)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fetchSite, _ := cmd.Flags().GetBool("fetch")
	withLLM, _ := cmd.Flags().GetBool("generate")

	f := buildFetcher(cfg, 0)
	proc := pipeline.New(
		pipeline.WithFetcher(f),
		pipeline.WithFetchOptions(cfg.FetchOptions()),
		pipeline.WithGenerator(buildGenerator(cfg, withLLM)),
		pipeline.WithConcurrency(1),
	)
	defer func() { _ = proc.Close() }()

	raw, source, err := resolveCollege(ctx, name, fetchSite, proc, crawler.New(f, cfg.Crawler()))
	if err != nil {
		return err
	}
	logger.Info("college resolved", "query", name, "name", raw.Name, "source", source)

	report, err := proc.ProcessRecords(ctx, []record.RawRecord{raw})
	if err != nil {
		return err
	}
	if len(report.Colleges) == 0 {
		return fmt.Errorf("processing %s: %s", name, strings.Join(report.Errors, "; "))
	}
	entry := report.Colleges[0]

	if formatStr == "text" {
		return renderLookup(out, entry)
	}
	format, _ := output.ParseFormat(formatStr)
	return output.WriteReport(out, format, report)
}

// resolveCollege finds raw data for name. A table hit is authoritative; with
// fetchSite its website is scraped and the table fields overlaid. Unknown
// names are searched for, then tried at guessed official domains.
func resolveCollege(ctx context.Context, name string, fetchSite bool, s pageScraper, search webSearcher) (record.RawRecord, string, error) {
	entry, err := lookup.Find(name)
	if err == nil {
		if !fetchSite {
			return entry.Raw(), "table", nil
		}
		scraped, err := s.Scrape(ctx, entry.Website)
		if err != nil && !errors.Is(err, pipeline.ErrNoMeaningfulData) {
			logger.Warn("official website unavailable, using table data", "url", entry.Website, "error", err)
			return entry.Raw(), "table", nil
		}
		return entry.Overlay(scraped), "table+website", nil
	}

	logger.Info("college not in table, searching", "name", name)
	candidates, err := search.Search(ctx, name+" Karnataka", searchCandidates, crawler.NewVisited())
	if err != nil {
		if ctx.Err() != nil {
			return record.RawRecord{}, "", ctx.Err()
		}
		logger.Warn("search failed", "name", name, "error", err)
	}
	if raw, ok := firstIdentified(ctx, s, candidates); ok {
		return raw, "search", nil
	}
	if raw, ok := firstIdentified(ctx, s, lookup.GuessURLs(name)); ok {
		return raw, "guessed", nil
	}
	if ctx.Err() != nil {
		return record.RawRecord{}, "", ctx.Err()
	}
	return record.RawRecord{}, "", fmt.Errorf("%s: %w", name, lookup.ErrNotFound)
}

// firstIdentified scrapes urls in order and returns the first page that
// names or describes a college.
func firstIdentified(ctx context.Context, s pageScraper, urls []string) (record.RawRecord, bool) {
	for _, u := range urls {
		if ctx.Err() != nil {
			return record.RawRecord{}, false
		}
		raw, err := s.Scrape(ctx, u)
		if err != nil && !errors.Is(err, pipeline.ErrNoMeaningfulData) {
			logger.Debug("candidate unavailable", "url", u, "error", err)
			continue
		}
		if raw.Name != "" || raw.Description != "" {
			return raw, true
		}
	}
	return record.RawRecord{}, false
}

func listColleges(w io.Writer, collegeType string) error {
	if collegeType == "" {
		for _, n := range lookup.Names() {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		return nil
	}

	entries := lookup.ByType(collegeType)
	if len(entries) == 0 {
		return fmt.Errorf("no known colleges of type %q", collegeType)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", e.OfficialName, e.Location); err != nil {
			return err
		}
	}
	return nil
}

// renderLookup prints the student guide followed by the record's facts.
func renderLookup(w io.Writer, entry pipeline.Entry) error {
	rec := entry.RawData

	var b strings.Builder
	b.WriteString(generate.FormatForStudents(rec.Name, entry.AIGenerated.AIGeneratedContent))
	b.WriteString("\nDETAILS\n")
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %-13s %s\n", label+":", value)
		}
	}
	field("Type", rec.CollegeType)
	field("Location", rec.Location)
	field("Established", rec.Established)
	field("Affiliation", rec.Affiliation)
	field("Website", rec.Website)
	field("Phone", strings.Join(rec.Phones, ", "))
	field("Email", strings.Join(rec.Emails, ", "))
	fmt.Fprintf(&b, "  %-13s %.2f\n", "Completeness:", rec.CompletenessScore)
	fmt.Fprintf(&b, "  %-13s %d/10\n", "Access score:", entry.AIGenerated.RuralStudentSpecific.AccessibilityScore)

	_, err := io.WriteString(w, b.String())
	return err
}
