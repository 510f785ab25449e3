package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jmylchreest/collegescout/internal/crawler"
	"github.com/jmylchreest/collegescout/pkg/pipeline"
	"github.com/jmylchreest/collegescout/pkg/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "collegescout.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReport(id string, started time.Time) *pipeline.Report {
	return &pipeline.Report{
		RunID:     id,
		Timestamp: started,
		Colleges: []pipeline.Entry{
			{ID: 1, RawData: record.CanonicalRecord{Name: "Alpha College", SourceURL: "https://alpha.edu.in", CompletenessScore: 0.5}},
			{ID: 3, RawData: record.CanonicalRecord{Name: "Gamma College", CollegeType: "Engineering", CompletenessScore: 0.8}},
		},
		Summary: pipeline.Summary{TotalColleges: 2, SuccessfulProcessing: 2, Errors: 1, ProcessingTime: started.Add(time.Minute)},
		Errors:  []string{"Error processing college 2: boom"},
	}
}

// --- Report Tests ---

func TestSaveReport_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	if err := s.SaveReport(ctx, testReport("run-a", started)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	run, err := s.Run(ctx, "run-a")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Colleges != 2 || !run.StartedAt.Equal(started) || !run.CompletedAt.Equal(started.Add(time.Minute)) {
		t.Errorf("Run() = %+v", run)
	}
	if want := []string{"Error processing college 2: boom"}; !reflect.DeepEqual(run.Errors, want) {
		t.Errorf("Run().Errors = %v, want %v", run.Errors, want)
	}

	entries, err := s.Colleges(ctx, "run-a")
	if err != nil {
		t.Fatalf("Colleges() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 1 || entries[1].RawData.Name != "Gamma College" {
		t.Errorf("Colleges() = %+v", entries)
	}
}

func TestSaveReport_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := testReport("run-a", time.Now())

	for i := 0; i < 2; i++ {
		if err := s.SaveReport(ctx, r); err != nil {
			t.Fatalf("SaveReport() #%d error = %v", i, err)
		}
	}
	entries, err := s.Colleges(ctx, "run-a")
	if err != nil {
		t.Fatalf("Colleges() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Colleges() = %d entries after re-saving, want 2", len(entries))
	}
}

func TestSaveReport_AssignsRunID(t *testing.T) {
	s := openTestStore(t)
	r := testReport("", time.Time{})
	r.Errors = nil

	if err := s.SaveReport(context.Background(), r); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if r.RunID == "" {
		t.Fatal("SaveReport() did not assign a run ID")
	}
	run, err := s.Run(context.Background(), r.RunID)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Errors == nil || len(run.Errors) != 0 {
		t.Errorf("Run().Errors = %#v, want empty", run.Errors)
	}
}

func TestRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Run(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run() error = %v, want ErrRunNotFound", err)
	}
}

func TestRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		offset := map[int]time.Duration{0: 0, 1: 2 * time.Hour, 2: time.Hour}[i]
		if err := s.SaveReport(ctx, testReport(id, base.Add(offset))); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	runs, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if want := []string{"newest", "middle"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("Runs() = %v, want %v", ids, want)
	}
}

// --- Visited Tests ---

func TestVisited_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.LoadVisited(ctx)
	if err != nil {
		t.Fatalf("LoadVisited() error = %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("LoadVisited() on new store = %d URLs", empty.Len())
	}

	first := crawler.NewVisited("https://rvce.edu.in", "https://bmsce.ac.in/")
	if err := s.SaveVisited(ctx, "run-a", first); err != nil {
		t.Fatalf("SaveVisited() error = %v", err)
	}
	if err := s.SaveVisited(ctx, "run-b", first.With("https://sit.ac.in")); err != nil {
		t.Fatalf("SaveVisited() error = %v", err)
	}

	got, err := s.LoadVisited(ctx)
	if err != nil {
		t.Fatalf("LoadVisited() error = %v", err)
	}
	want := []string{"https://bmsce.ac.in/", "https://rvce.edu.in/", "https://sit.ac.in/"}
	if !reflect.DeepEqual(got.URLs(), want) {
		t.Errorf("LoadVisited() = %v, want %v", got.URLs(), want)
	}
}
