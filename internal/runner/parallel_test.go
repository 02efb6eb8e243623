package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/cybertec-postgresql/pgscan/internal/discovery"
	"github.com/cybertec-postgresql/pgscan/pkg/scn"
)

// TestParallelExecution checks that parallel scanning keeps input order
// and produces the same records as sequential scanning
func TestParallelExecution(t *testing.T) {
	dir := t.TempDir()
	var sources []discovery.Source
	for i := 0; i < 8; i++ {
		content := ""
		for j := 0; j < 50; j++ {
			content += fmt.Sprintf("%d %d\n", i, j)
		}
		sources = append(sources, writeInput(t, dir, fmt.Sprintf("in%d.txt", i), content))
	}

	e := NewExecutor(scn.New(), Options{Format: "{} {}", Kinds: kinds(t, "int", "int")})

	sequential, err := NewWorkerPool(e, 1, false).ExecuteParallel(context.Background(), sources)
	if err != nil {
		t.Fatalf("sequential execution failed: %v", err)
	}
	parallel, err := NewWorkerPool(e, 4, testing.Verbose()).ExecuteParallel(context.Background(), sources)
	if err != nil {
		t.Fatalf("parallel execution failed: %v", err)
	}

	if len(parallel) != len(sources) {
		t.Fatalf("expected %d runs, got %d", len(sources), len(parallel))
	}
	for i, run := range parallel {
		if run.Source.RelativePath != sources[i].RelativePath {
			t.Errorf("run %d: got %s, want %s", i, run.Source.RelativePath, sources[i].RelativePath)
		}
		if run.Status != RunClean {
			t.Errorf("run %d: status %s", i, run.Status)
		}
		if len(run.Records) != len(sequential[i].Records) {
			t.Errorf("run %d: %d records in parallel, %d sequentially", i, len(run.Records), len(sequential[i].Records))
		}
		if first := run.Records[0].Values[0]; first != int64(i) {
			t.Errorf("run %d: first value %v", i, first)
		}
	}

	summary := SummarizeRuns(parallel)
	if summary.Records != 8*50 || summary.ExitCode() != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestParallelExecutionCancelled(t *testing.T) {
	dir := t.TempDir()
	sources := []discovery.Source{
		writeInput(t, dir, "a.txt", "1\n"),
		writeInput(t, dir, "b.txt", "2\n"),
	}
	e := NewExecutor(scn.New(), Options{Format: "{}", Kinds: kinds(t, "int")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs, err := NewWorkerPool(e, 2, false).ExecuteParallel(ctx, sources)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	for i, run := range runs {
		if run == nil || run.Status != RunFailed {
			t.Errorf("run %d should have failed", i)
		}
	}
}

func TestParallelExecutionEmpty(t *testing.T) {
	runs, err := NewWorkerPool(nil, 0, false).ExecuteParallel(context.Background(), nil)
	if err != nil || runs != nil {
		t.Errorf("expected nothing for no inputs, got %v, %v", runs, err)
	}
}
