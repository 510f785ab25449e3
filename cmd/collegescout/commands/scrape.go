package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/internal/metrics"
	"github.com/jmylchreest/collegescout/internal/output"
	"github.com/jmylchreest/collegescout/internal/storage"
	"github.com/jmylchreest/collegescout/pkg/pipeline"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url...]",
	Short: "Discover, scrape and process college websites",
	Long: `Scrape college websites, clean the extracted records and generate
student guidance for each college.

Seed URLs are processed first, followed by colleges found through web search
and the configured directory sites. Results are saved to the output directory
in every configured format.

Examples:
  # Discover and process up to 20 colleges
  collegescout scrape --max-colleges 20

  # Process two pages and print the report as JSON
  collegescout scrape -u https://bmsce.ac.in/ -u https://msrit.edu/ \
      --no-discover --format json

  # Resume a previous run, keeping results in sqlite
  collegescout scrape --resume --database runs.db

  # Expose Prometheus metrics while running
  collegescout scrape --metrics-addr :9090`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	// URL inputs
	flags.StringSliceP("url", "u", nil, "seed URL(s) to scrape (can be repeated)")
	flags.Bool("no-discover", false, "process seed URLs only, skipping search and directories")
	flags.Int("max-colleges", 0, "max colleges to process (default from config, 50)")

	// Fetch settings
	flags.Bool("no-dynamic", false, "disable the headless browser fallback")
	flags.String("max-body-size", "", "max response body size (e.g., 5MB, 0=default)")
	flags.IntP("concurrency", "c", 0, "concurrent colleges (default from config, 3)")

	// Generation settings
	flags.StringP("provider", "p", "", "LLM provider: openrouter, anthropic, openai, ollama (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.Bool("no-generate", false, "skip LLM generation and use fallback guidance")

	// Output settings
	flags.String("output-dir", "", "directory for saved results (default from config, output)")
	flags.StringSlice("save-formats", nil, "formats to save: json, jsonl, yaml, excel, summary")
	flags.String("format", "", "also stream the report to --output: json, jsonl, yaml")
	flags.StringP("output", "o", "", "stream destination for --format (default: stdout)")
	flags.String("database", "", "sqlite file recording runs and visited URLs")
	flags.Bool("resume", false, "skip URLs processed by earlier runs (requires --database)")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g., :9090)")

	// Bind to viper
	_ = viper.BindPFlag("scraping.max_colleges", flags.Lookup("max-colleges"))
	_ = viper.BindPFlag("scraping.concurrency", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("generation.provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("generation.model", flags.Lookup("model"))
	_ = viper.BindPFlag("output.output_directory", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("output.save_formats", flags.Lookup("save-formats"))
	_ = viper.BindPFlag("output.database", flags.Lookup("database"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Debug("scrape command starting")

	if noDynamic, _ := cmd.Flags().GetBool("no-dynamic"); noDynamic {
		cfg.Scraping.UseDynamicFallback = false
	}
	bodySizeStr, _ := cmd.Flags().GetString("max-body-size")
	maxBodySize, err := parseBodySize(bodySizeStr)
	if err != nil {
		return err
	}

	formats, err := output.ParseFormats(cfg.Output.SaveFormats)
	if err != nil {
		return err
	}
	var streamFormat output.Format
	if s, _ := cmd.Flags().GetString("format"); s != "" {
		streamFormat, err = output.ParseFormat(s)
		if err != nil {
			return err
		}
		if !streamFormat.Streamable() {
			return fmt.Errorf("format %s cannot be streamed; use --save-formats", streamFormat)
		}
	}

	// Persistence
	resume, _ := cmd.Flags().GetBool("resume")
	var store *storage.Store
	if cfg.Output.Database != "" {
		store, err = storage.Open(cfg.Output.Database)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	} else if resume {
		return errors.New("--resume requires --database or output.database")
	}

	visited := crawler.NewVisited()
	if resume {
		visited, err = store.LoadVisited(ctx)
		if err != nil {
			return err
		}
		logger.Info("resuming", "visited", visited.Len())
	}

	// Metrics
	m := metrics.New()
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			if err := m.Serve(ctx, addr); err != nil {
				logger.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", addr)
	}

	f := buildFetcher(cfg, maxBodySize)
	noGenerate, _ := cmd.Flags().GetBool("no-generate")
	gen := buildGenerator(cfg, !noGenerate)
	proc := pipeline.New(
		pipeline.WithFetcher(f),
		pipeline.WithFetchOptions(cfg.FetchOptions()),
		pipeline.WithGenerator(gen),
		pipeline.WithMetrics(m),
		pipeline.WithConcurrency(cfg.Scraping.Concurrency),
	)
	defer func() { _ = proc.Close() }()

	// Seeds
	seeds, _ := cmd.Flags().GetStringSlice("url")
	seeds = append(seeds, args...)

	urls := seeds
	if noDiscover, _ := cmd.Flags().GetBool("no-discover"); !noDiscover {
		urls, err = crawler.New(f, cfg.Crawler()).Discover(ctx, seeds, visited)
		if err != nil {
			return err
		}
	} else if len(seeds) == 0 {
		return cmd.Help()
	}
	if len(urls) == 0 {
		logInfo("No college URLs to process")
		return nil
	}

	logger.Info("starting scrape",
		"urls", len(urls),
		"generator", gen.Name(),
		"concurrency", cfg.Scraping.Concurrency)

	report, visited, err := proc.ProcessURLs(ctx, urls, visited)
	if err != nil {
		return err
	}

	paths, err := output.Save(cfg.Output.OutputDirectory, report, formats)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.SaveReport(ctx, report); err != nil {
			return err
		}
		if err := store.SaveVisited(ctx, report.RunID, visited); err != nil {
			return err
		}
		logger.Info("run stored", "run_id", report.RunID, "database", cfg.Output.Database)
	}

	if streamFormat != "" {
		outPath, _ := cmd.Flags().GetString("output")
		out, closeOut, err := createOutput(outPath)
		if err != nil {
			return err
		}
		defer closeOut()
		if err := output.WriteReport(out, streamFormat, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	logInfo("Processed %d colleges with %d errors in %s",
		report.Summary.TotalColleges, report.Summary.Errors, report.Elapsed().Round(time.Millisecond))
	for _, p := range paths {
		logInfo("  saved %s", p)
	}
	return nil
}
