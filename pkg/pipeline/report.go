package pipeline

import (
	"time"

	"github.com/jmylchreest/collegescout/pkg/generate"
	"github.com/jmylchreest/collegescout/pkg/record"
)

// Entry is one processed college: the cleaned record and its generated
// content.
type Entry struct {
	ID          int                    `json:"id" yaml:"id"`
	RawData     record.CanonicalRecord `json:"raw_data" yaml:"raw_data"`
	AIGenerated generate.Enhanced      `json:"ai_generated" yaml:"ai_generated"`
	ProcessedAt time.Time              `json:"processed_at" yaml:"processed_at"`
}

// Summary counts a run's outcome.
type Summary struct {
	TotalColleges        int       `json:"total_colleges" yaml:"total_colleges"`
	SuccessfulProcessing int       `json:"successful_processing" yaml:"successful_processing"`
	Errors               int       `json:"errors" yaml:"errors"`
	ProcessingTime       time.Time `json:"processing_time" yaml:"processing_time"`
}

// Report is the result of one run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Colleges  []Entry   `json:"colleges" yaml:"colleges"`
	Summary   Summary   `json:"summary" yaml:"summary"`
	Errors    []string  `json:"errors" yaml:"errors"`
}

// Elapsed is the wall time between the run starting and completing.
func (r *Report) Elapsed() time.Duration {
	if r.Summary.ProcessingTime.IsZero() {
		return 0
	}
	return r.Summary.ProcessingTime.Sub(r.Timestamp)
}
