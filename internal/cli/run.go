package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cybertec-postgresql/pgscan/internal/discovery"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/internal/report"
	"github.com/cybertec-postgresql/pgscan/internal/runner"
)

// Stderr receives summaries and rejected lines
var Stderr io.Writer = os.Stderr

// Scan runs the scan workflow: every input line is matched against the
// format and the records are written in the configured output format
func Scan(ctx context.Context, config *Config, args []string) (int, error) {
	runs, summary, err := execute(ctx, config, args, runner.ModeLines)
	if err != nil {
		return 1, err
	}

	kinds, err := Kinds(config)
	if err != nil {
		return 1, err
	}
	set := &report.RecordSet{
		Columns: runner.Columns(kinds, config.Columns),
		Records: runner.CollectRecords(runs),
	}
	if err := WriteReport(set, config.Output, config.OutputPath); err != nil {
		return 1, err
	}

	printSummary(summary)
	return summary.ExitCode(), nil
}

// List runs the list workflow: each input is read as one separated list
func List(ctx context.Context, config *Config, args []string) (int, error) {
	runs, summary, err := execute(ctx, config, args, runner.ModeList)
	if err != nil {
		return 1, err
	}

	set := &report.RecordSet{Records: runner.CollectRecords(runs)}
	if err := WriteReport(set, config.Output, config.OutputPath); err != nil {
		return 1, err
	}

	printSummary(summary)
	return summary.ExitCode(), nil
}

// execute discovers the inputs and scans them
func execute(ctx context.Context, config *Config, args []string, mode runner.Mode) ([]*runner.FileRun, *runner.RunSummary, error) {
	startTime := time.Now()

	// Step 1: Discover inputs
	sources, err := discovery.DiscoverAll(args, config.Include)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover inputs: %w", err)
	}
	logger.Debug("found %d input(s)", len(sources))

	// Step 2: Build the executor
	executor, err := NewExecutor(config, mode)
	if err != nil {
		return nil, nil, err
	}

	// Step 3: Scan (parallel or sequential based on config)
	pool := runner.NewWorkerPool(executor, config.Parallelism, config.Verbose)
	runs, err := pool.ExecuteParallel(ctx, sources)
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}

	// Step 4: Report problems per input
	for _, run := range runs {
		for _, rej := range run.Rejected {
			fmt.Fprintf(Stderr, "rejected %v\n", rej)
		}
		if run.Error != nil {
			logger.Error("%s: %v", run.Source.RelativePath, run.Error)
		}
	}

	summary := runner.SummarizeRuns(runs)
	summary.TotalDuration = time.Since(startTime)
	return runs, summary, nil
}

func printSummary(summary *runner.RunSummary) {
	fmt.Fprintf(Stderr, "Inputs:   %d clean, %d failed, %d total\n",
		summary.CleanInputs, summary.FailedInputs, summary.TotalInputs)
	fmt.Fprintf(Stderr, "Records:  %d accepted, %d rejected\n", summary.Records, summary.RejectedLines)
	fmt.Fprintf(Stderr, "Time:     %v\n", summary.TotalDuration.Round(time.Millisecond))
}
