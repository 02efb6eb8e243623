package runner

import (
	"time"

	"github.com/cybertec-postgresql/pgscan/internal/discovery"
	"github.com/cybertec-postgresql/pgscan/internal/errors"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// FileRun represents the scan of a single input
type FileRun struct {
	Source    *discovery.Source
	StartTime time.Time
	EndTime   time.Time
	Status    RunStatus
	Records   []types.Record
	Rejected  []*errors.RecordError // Lines that did not match the format
	Error     error                 // Non-nil if the input could not be read
}

// RunStatus represents the outcome of scanning one input
type RunStatus int

const (
	RunPending RunStatus = iota
	RunRunning
	RunClean    // every line matched
	RunRejected // some lines did not match
	RunFailed   // the input could not be read to the end
)

// String returns a string representation of RunStatus
func (rs RunStatus) String() string {
	switch rs {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunClean:
		return "clean"
	case RunRejected:
		return "rejected"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Duration returns the scan duration
func (fr *FileRun) Duration() time.Duration {
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// finish sets the end time and derives the status
func (fr *FileRun) finish(err error) {
	fr.EndTime = time.Now()
	fr.Error = err
	switch {
	case err != nil:
		fr.Status = RunFailed
	case len(fr.Rejected) > 0:
		fr.Status = RunRejected
	default:
		fr.Status = RunClean
	}
}

// RunSummary summarizes all scanned inputs
type RunSummary struct {
	TotalInputs   int
	CleanInputs   int
	FailedInputs  int
	Records       int
	RejectedLines int
	TotalDuration time.Duration
}

// AllClean returns true if every line of every input matched
func (s *RunSummary) AllClean() bool {
	return s.CleanInputs == s.TotalInputs
}

// ExitCode returns 0 if everything matched, 1 otherwise
func (s *RunSummary) ExitCode() int {
	if s.AllClean() {
		return 0
	}
	return 1
}

// SummarizeRuns creates a summary from a list of runs
func SummarizeRuns(runs []*FileRun) *RunSummary {
	summary := &RunSummary{TotalInputs: len(runs)}
	for _, run := range runs {
		switch run.Status {
		case RunClean:
			summary.CleanInputs++
		case RunFailed:
			summary.FailedInputs++
		}
		summary.Records += len(run.Records)
		summary.RejectedLines += len(run.Rejected)
		summary.TotalDuration += run.Duration()
	}
	return summary
}

// CollectRecords concatenates the records of all runs in input order
func CollectRecords(runs []*FileRun) []types.Record {
	var out []types.Record
	for _, run := range runs {
		out = append(out, run.Records...)
	}
	return out
}
