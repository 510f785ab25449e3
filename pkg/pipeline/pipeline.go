// Package pipeline runs colleges through fetch, extract, clean and generate,
// and gathers the results into a Report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/internal/logger"
	"github.com/jmylchreest/collegescout/internal/metrics"
	"github.com/jmylchreest/collegescout/pkg/clean"
	"github.com/jmylchreest/collegescout/pkg/extract"
	"github.com/jmylchreest/collegescout/pkg/fetcher"
	"github.com/jmylchreest/collegescout/pkg/generate"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// ErrNoMeaningfulData is returned by Scrape when a page yields no name,
// courses or description.
var ErrNoMeaningfulData = errors.New("no meaningful data")

// DefaultConcurrency bounds how many records are worked on at once.
const DefaultConcurrency = 3

// Processor is the main entry point for processing colleges.
type Processor struct {
	fetcher     fetcher.Fetcher
	fetchOpts   fetcher.Options
	cleaner     *clean.Cleaner
	generator   generate.Generator
	metrics     *metrics.Metrics
	concurrency int
	now         func() time.Time
	newID       func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithFetcher sets the page fetcher used by ProcessURLs and Scrape.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(p *Processor) {
		p.fetcher = f
	}
}

// WithFetchOptions sets per-request fetch options.
func WithFetchOptions(opts fetcher.Options) Option {
	return func(p *Processor) {
		p.fetchOpts = opts
	}
}

// WithCleaner sets the record cleaner.
func WithCleaner(c *clean.Cleaner) Option {
	return func(p *Processor) {
		p.cleaner = c
	}
}

// WithGenerator sets the content generator.
func WithGenerator(g generate.Generator) Option {
	return func(p *Processor) {
		p.generator = g
	}
}

// WithMetrics records fetch, clean and generation metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithConcurrency sets how many records are processed at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock sets the time source for report and entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(p *Processor) {
		p.newID = func() string { return id }
	}
}

// New creates a Processor. Without options it fetches with the default
// fetcher stack and generates with the static fallback generator.
func New(opts ...Option) *Processor {
	p := &Processor{
		cleaner:     clean.New(),
		generator:   generate.Static{},
		concurrency: DefaultConcurrency,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = fetcher.New(fetcher.DefaultConfig())
	}
	return p
}

// Close releases the fetcher.
func (p *Processor) Close() error {
	return p.fetcher.Close()
}

// Scrape fetches url and extracts a RawRecord from it.
func (p *Processor) Scrape(ctx context.Context, url string) (record.RawRecord, error) {
	start := time.Now()
	content, err := p.fetcher.Fetch(ctx, url, p.fetchOpts)
	p.metrics.ObserveFetch(p.fetcher.Type(), start, err)
	if err != nil {
		return record.RawRecord{SourceURL: url}, fmt.Errorf("fetch %s: %w", url, err)
	}

	raw := extract.Extract(content.HTML, url)
	if !raw.IsMeaningful() {
		return raw, ErrNoMeaningfulData
	}
	return raw, nil
}

// ProcessURLs scrapes urls and processes every page that yields meaningful
// data. It returns the report and a copy of visited extended with the URLs
// that produced a record; visited itself is not changed. Pages that fail to
// fetch or yield no data are logged and skipped.
func (p *Processor) ProcessURLs(ctx context.Context, urls []string, visited crawler.Visited) (*Report, crawler.Visited, error) {
	log := logger.Component("pipeline")
	started := p.now()

	scraped := make([]*record.RawRecord, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, url := range urls {
		if visited.Has(url) {
			log.Debug("skipping visited url", "url", url)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := p.Scrape(gctx, url)
			switch {
			case errors.Is(err, ErrNoMeaningfulData):
				log.Warn("no meaningful data", "url", url)
				return nil
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("scrape failed", "url", url, "error", err)
				return nil
			}
			log.Info("college scraped", "url", url, "name", raw.Name)
			scraped[i] = &raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, visited, err
	}

	var raws []record.RawRecord
	var done []string
	for i, raw := range scraped {
		if raw != nil {
			raws = append(raws, *raw)
			done = append(done, urls[i])
		}
	}
	log.Info("scraping complete", "urls", len(urls), "scraped", len(raws))

	report, err := p.process(ctx, raws, started)
	if err != nil {
		return nil, visited, err
	}
	return report, visited.With(done...), nil
}

// ProcessRecords cleans and generates content for already-scraped records.
func (p *Processor) ProcessRecords(ctx context.Context, raws []record.RawRecord) (*Report, error) {
	return p.process(ctx, raws, p.now())
}

func (p *Processor) process(ctx context.Context, raws []record.RawRecord, started time.Time) (*Report, error) {
	log := logger.Component("pipeline")

	entries := make([]*Entry, len(raws))
	errs := make([]error, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := p.processOne(gctx, i+1, raw)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Error("college processing failed", "id", i+1, "url", raw.SourceURL, "error", err)
				errs[i] = err
				return nil
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     p.newID(),
		Timestamp: started,
		Colleges:  make([]Entry, 0, len(raws)),
		Errors:    []string{},
	}
	for i := range raws {
		if entries[i] != nil {
			report.Colleges = append(report.Colleges, *entries[i])
		}
		if errs[i] != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Error processing college %d: %v", i+1, errs[i]))
		}
	}
	report.Summary = Summary{
		TotalColleges:        len(report.Colleges),
		SuccessfulProcessing: len(report.Colleges),
		Errors:               len(report.Errors),
		ProcessingTime:       p.now(),
	}

	log.Info("processing complete",
		"run_id", report.RunID,
		"colleges", report.Summary.TotalColleges,
		"errors", report.Summary.Errors)
	return report, nil
}

func (p *Processor) processOne(ctx context.Context, id int, raw record.RawRecord) (*Entry, error) {
	log := logger.Component("pipeline")

	cleaned := p.cleaner.CleanResult(raw)
	p.metrics.ObserveClean(cleaned.Degraded, cleaned.Record.CompletenessScore)
	if cleaned.Degraded {
		log.Warn("cleaning degraded", "id", id, "url", raw.SourceURL, "reason", cleaned.Reason)
	}
	rec := cleaned.Record

	start := time.Now()
	res, err := p.generator.Generate(ctx, rec)
	if err != nil {
		p.metrics.ObserveGeneration(p.generator.Name(), metrics.OutcomeError, start)
		return nil, err
	}
	outcome := metrics.OutcomeGenerated
	if res.Fallback {
		outcome = metrics.OutcomeFallback
	}
	p.metrics.ObserveGeneration(res.Provider, outcome, start)

	log.Info("college processed",
		"id", id,
		"name", rec.Name,
		"score", rec.CompletenessScore,
		"provider", res.Provider,
		"fallback", res.Fallback)

	return &Entry{
		ID:          id,
		RawData:     rec,
		AIGenerated: generate.Enhance(res.Content, rec),
		ProcessedAt: p.now(),
	}, nil
}
