package cli

import (
	"context"
	"fmt"

	"github.com/cybertec-postgresql/pgscan/internal/database"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/internal/runner"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Load runs the load workflow: inputs are scanned like Scan does and the
// accepted records are copied into the configured table
func Load(ctx context.Context, config *Config, args []string) (int, error) {
	runs, summary, err := execute(ctx, config, args, runner.ModeLines)
	if err != nil {
		return 1, err
	}

	kinds, err := Kinds(config)
	if err != nil {
		return 1, err
	}
	columns := runner.Columns(kinds, config.Columns)

	// Connect to PostgreSQL
	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	table, err := database.ParseIdentifier(config.Table)
	if err != nil {
		return 1, err
	}
	loader := database.NewLoader(pool, table, columns)
	if config.CreateTable {
		if err := loader.CreateTable(ctx, keptKinds(kinds)); err != nil {
			return 1, err
		}
	}

	n, err := loader.Load(ctx, runner.CollectRecords(runs))
	if err != nil {
		return 1, err
	}
	logger.Info("loaded %d rows into %s", n, loader.Table())

	printSummary(summary)
	fmt.Fprintf(Stderr, "Loaded:   %d rows into %s\n", n, loader.Table())
	return summary.ExitCode(), nil
}

func keptKinds(kinds []types.ValueKind) []types.ValueKind {
	var out []types.ValueKind
	for _, k := range kinds {
		if k != types.KindSkip {
			out = append(out, k)
		}
	}
	return out
}
