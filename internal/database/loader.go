package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cybertec-postgresql/pgscan/internal/errors"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/internal/scanner"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Loader copies scanned records into a table with COPY FROM STDIN
type Loader struct {
	pool    *Pool
	table   pgx.Identifier
	columns []string
}

// NewLoader creates a loader for table as returned by ParseIdentifier
func NewLoader(pool *Pool, table pgx.Identifier, columns []string) *Loader {
	return &Loader{
		pool:    pool,
		table:   table,
		columns: columns,
	}
}

// Table returns the quoted target table name
func (l *Loader) Table() string {
	return l.table.Sanitize()
}

// sqlType maps a scanned kind onto a column type
func sqlType(k types.ValueKind) string {
	switch k {
	case types.KindInt:
		return "bigint"
	case types.KindUint:
		return "numeric(20)"
	case types.KindFloat:
		return "double precision"
	case types.KindBool:
		return "boolean"
	default:
		return "text"
	}
}

// createTableSQL builds the statement creating the target table. Skipped
// kinds must already be removed from kinds.
func createTableSQL(table pgx.Identifier, columns []string, kinds []types.ValueKind) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pgx.Identifier{col}.Sanitize() + " " + sqlType(kinds[i])
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Sanitize(), strings.Join(defs, ", "))
}

// CreateTable creates the target table unless it exists. kinds lists the
// type of each loaded column.
func (l *Loader) CreateTable(ctx context.Context, kinds []types.ValueKind) error {
	if len(kinds) != len(l.columns) {
		return errors.NewLoadError(l.Table(), fmt.Sprintf("%d column types for %d columns", len(kinds), len(l.columns)), nil)
	}
	sql := createTableSQL(l.table, l.columns, kinds)
	logger.Debug("%s", sql)
	if _, err := l.pool.Exec(ctx, sql); err != nil {
		return l.loadError("failed to create table", err)
	}
	return nil
}

// Load copies records in one transaction and returns the number of rows
// written. Nothing is written if any row fails.
func (l *Loader) Load(ctx context.Context, records []types.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, l.loadError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		rec := records[i]
		if len(rec.Values) != len(l.columns) {
			return nil, fmt.Errorf("%s:%d: %d values for %d columns", rec.Source, rec.Line, len(rec.Values), len(l.columns))
		}
		return rowValues(rec.Values), nil
	})

	n, err := tx.CopyFrom(ctx, l.table, l.columns, rows)
	if err != nil {
		return 0, l.loadError("copy failed", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, l.loadError("commit failed", err)
	}

	logger.Debug("copied %d rows into %s", n, l.Table())
	return n, nil
}

func (l *Loader) loadError(message string, err error) *errors.LoadError {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return errors.NewLoadError(l.Table(), message, pgErr)
	}
	return errors.NewLoadError(l.Table(), fmt.Sprintf("%s: %v", message, err), nil)
}

// rowValues converts scanned values into what pgx encodes for the column types
func rowValues(values []any) []any {
	row := make([]any, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case scanner.Char:
			row[i] = string(rune(v))
		case []byte:
			row[i] = string(v)
		default:
			row[i] = v
		}
	}
	return row
}
