package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cybertec-postgresql/pgscan/internal/discovery"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
)

// WorkerPool scans several inputs at once
type WorkerPool struct {
	executor   *Executor
	maxWorkers int
	verbose    bool
}

// NewWorkerPool creates a new worker pool for parallel scanning
func NewWorkerPool(executor *Executor, maxWorkers int, verbose bool) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		executor:   executor,
		maxWorkers: maxWorkers,
		verbose:    verbose,
	}
}

// ExecuteParallel scans all sources with at most maxWorkers at a time.
// Runs are returned in source order. A failing input does not stop the
// others; only cancellation of ctx does.
func (wp *WorkerPool) ExecuteParallel(ctx context.Context, sources []discovery.Source) ([]*FileRun, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	// If only one worker or one input, fall back to sequential execution
	if wp.maxWorkers == 1 || len(sources) == 1 {
		return wp.executor.ExecuteBatch(ctx, sources)
	}

	logger.Debug("starting parallel scan with %d workers for %d inputs", wp.maxWorkers, len(sources))

	runs := make([]*FileRun, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.maxWorkers)

	for i := range sources {
		i := i
		src := &sources[i]
		g.Go(func() error {
			// Check if context was cancelled before starting
			if err := gctx.Err(); err != nil {
				run := &FileRun{Source: src, StartTime: time.Now()}
				run.finish(err)
				runs[i] = run
				return err
			}

			run, err := wp.executor.Execute(gctx, src)
			runs[i] = run
			if wp.verbose {
				logger.Debug("[%s] %s: %d records, %d rejected", run.Status, src.RelativePath, len(run.Records), len(run.Rejected))
			}
			if err != nil && gctx.Err() != nil {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return runs, err
	}
	return runs, nil
}
