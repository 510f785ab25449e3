// Package metrics exposes Prometheus instrumentation for scraping runs.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
	OutcomeError     = "error"
)

// Metrics holds the pipeline's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PagesFetched       *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec
	RecordsCleaned     *prometheus.CounterVec
	Completeness       prometheus.Histogram
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "collegescout_pages_fetched_total",
			Help: "Pages fetched, by fetcher and outcome",
		}, []string{"fetcher", "status"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "collegescout_fetch_duration_seconds",
			Help:    "Duration of page fetches",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"fetcher"}),
		RecordsCleaned: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "collegescout_records_cleaned_total",
			Help: "Records cleaned, by whether cleaning degraded",
		}, []string{"degraded"}),
		Completeness: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "collegescout_completeness_score",
			Help:    "Completeness score of cleaned records",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		Generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "collegescout_generation_total",
			Help: "Content generations, by generator and outcome",
		}, []string{"generator", "outcome"}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "collegescout_generation_duration_seconds",
			Help:    "Duration of content generation including retries",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one fetch. Call with time.Now() at the start of the
// fetch.
func (m *Metrics) ObserveFetch(fetcherType string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PagesFetched.WithLabelValues(fetcherType, status).Inc()
	m.FetchDuration.WithLabelValues(fetcherType).Observe(time.Since(start).Seconds())
}

// ObserveClean records one cleaned record and its completeness score.
func (m *Metrics) ObserveClean(degraded bool, completeness float64) {
	if m == nil {
		return
	}
	m.RecordsCleaned.WithLabelValues(strconv.FormatBool(degraded)).Inc()
	m.Completeness.Observe(completeness)
}

// ObserveGeneration records one generation. Call with time.Now() at the
// start of the generation.
func (m *Metrics) ObserveGeneration(generator, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(generator, outcome).Inc()
	m.GenerationDuration.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
