package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/discovery"
	"github.com/cybertec-postgresql/pgscan/internal/errors"
	"github.com/cybertec-postgresql/pgscan/internal/format"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/internal/scanner"
	"github.com/cybertec-postgresql/pgscan/internal/stdin"
	"github.com/cybertec-postgresql/pgscan/pkg/scn"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Mode selects how an input is turned into records
type Mode int

const (
	// ModeLines scans every line against the format and yields one record per line
	ModeLines Mode = iota
	// ModeList reads the whole input as one separated list of a single kind
	ModeList
)

// Options configures an Executor
type Options struct {
	Mode      Mode
	Format    string
	Grammar   format.Grammar
	Kinds     []types.ValueKind
	Separator byte
	Encoding  encoding.Encoding // nil = UTF-8
	Verbose   bool
}

// Executor scans inputs into records
type Executor struct {
	scanner *scn.Scanner
	opts    Options
}

// NewExecutor creates a new executor. The scanner's facet must expect
// UTF-8; inputs in another encoding are transcoded before scanning.
func NewExecutor(s *scn.Scanner, opts Options) *Executor {
	return &Executor{scanner: s, opts: opts}
}

// Execute scans a single input
func (e *Executor) Execute(ctx context.Context, src *discovery.Source) (*FileRun, error) {
	run := &FileRun{
		Source:    src,
		StartTime: time.Now(),
		Status:    RunRunning,
	}

	if src.Type == discovery.SourceStdin && e.opts.Encoding == nil {
		// Standard input is shared by the whole process
		rng := stdin.Default()
		c := rng.Lock()
		defer rng.Unlock()
		run.finish(e.scan(ctx, run, c))
		return run, run.Error
	}

	r, closeFn, err := e.open(src)
	if err != nil {
		run.finish(err)
		return run, err
	}
	defer closeFn()

	run.finish(e.scan(ctx, run, cursor.FromCaching(r)))
	return run, run.Error
}

// ExecuteBatch scans inputs one after another
func (e *Executor) ExecuteBatch(ctx context.Context, sources []discovery.Source) ([]*FileRun, error) {
	runs := make([]*FileRun, 0, len(sources))
	for i := range sources {
		run, err := e.Execute(ctx, &sources[i])
		if err != nil {
			logger.Debug("%s: %v", sources[i].RelativePath, err)
		}
		if ctx.Err() != nil {
			return runs, ctx.Err()
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (e *Executor) open(src *discovery.Source) (io.Reader, func(), error) {
	var (
		r       io.Reader
		closeFn = func() {}
	)
	if src.Type == discovery.SourceStdin {
		r = os.Stdin
	} else {
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", src.RelativePath, err)
		}
		r = f
		closeFn = func() { f.Close() }
	}
	if e.opts.Encoding != nil {
		r = transform.NewReader(r, e.opts.Encoding.NewDecoder())
	}
	return r, closeFn, nil
}

func (e *Executor) scan(ctx context.Context, run *FileRun, c *cursor.Cursor) error {
	if e.opts.Mode == ModeList {
		return e.scanList(run, c)
	}
	return e.scanLines(ctx, run, c)
}

func (e *Executor) scanLines(ctx context.Context, run *FileRun, c *cursor.Cursor) error {
	t := newTargets(e.opts.Kinds)
	name := run.Source.RelativePath

	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		res := e.scanner.GetlineDefault(c, &line)
		if !res.OK() {
			if res.Error().Kind == types.EndOfRange {
				return nil
			}
			return fmt.Errorf("failed to read %s: %w", name, res.Err())
		}
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if rerr := e.scanLine(line, t); rerr != nil {
			rerr.File, rerr.Line = name, lineNo
			logger.Debug("%v", rerr)
			run.Rejected = append(run.Rejected, rerr)
			continue
		}
		run.Records = append(run.Records, types.Record{Source: name, Line: lineNo, Values: t.values()})
	}
}

// scanLine matches one line against the format. The whole line must be used.
func (e *Executor) scanLine(line string, t *targets) *errors.RecordError {
	var res scn.Result
	if e.opts.Grammar == format.Scanf {
		res = e.scanner.Scanf(line, e.opts.Format, t.ptrs...)
	} else {
		res = e.scanner.Scan(line, e.opts.Format, t.ptrs...)
	}

	rest := res.String()
	column := len(line) - len(rest) + 1
	if !res.OK() {
		return errors.NewRecordError("", 0, column, res.Error().Error())
	}
	if trailing := strings.TrimSpace(rest); trailing != "" {
		return errors.NewRecordError("", 0, column, fmt.Sprintf("unexpected trailing input %q", trailing))
	}
	return nil
}

func (e *Executor) scanList(run *FileRun, c *cursor.Cursor) error {
	kind := types.KindString
	if len(e.opts.Kinds) > 0 {
		kind = e.opts.Kinds[0]
	}

	var (
		values []any
		res    scn.Result
	)
	switch kind {
	case types.KindInt:
		values, res = scanListOf[int64](e.scanner, c, e.opts.Separator)
	case types.KindUint:
		values, res = scanListOf[uint64](e.scanner, c, e.opts.Separator)
	case types.KindFloat:
		values, res = scanListOf[float64](e.scanner, c, e.opts.Separator)
	case types.KindBool:
		values, res = scanListOf[bool](e.scanner, c, e.opts.Separator)
	case types.KindChar:
		values, res = scanListOf[scn.Char](e.scanner, c, e.opts.Separator)
	case types.KindSkip:
		return fmt.Errorf("a list cannot be of kind %s", kind)
	default:
		values, res = scanListOf[string](e.scanner, c, e.opts.Separator)
	}

	name := run.Source.RelativePath
	if !res.OK() {
		if !res.Error().IsRecoverable() {
			return fmt.Errorf("failed to read %s: %w", name, res.Err())
		}
		run.Rejected = append(run.Rejected,
			errors.NewRecordError(name, 0, c.Offset()+1, res.Error().Error()))
	} else if next, err := e.leftover(c); err != nil || next != "" {
		message := fmt.Sprintf("list stopped at %q", next)
		if err != nil {
			message = err.Error()
		}
		run.Rejected = append(run.Rejected, errors.NewRecordError(name, 0, c.Offset()+1, message))
	}
	if len(values) > 0 {
		run.Records = append(run.Records, types.Record{Source: name, Values: values})
	}
	return nil
}

func scanListOf[T any](s *scn.Scanner, c *cursor.Cursor, separator byte) ([]any, scn.Result) {
	var list scn.SliceList[T]
	res := scn.ScanListWith[T](s, c, &list, separator)
	out := make([]any, len(list.Values))
	for i, v := range list.Values {
		out[i] = v
	}
	return out, res
}

// leftover skips trailing whitespace as the scanner's locale classifies it
// and returns the character after it, empty at the end of input
func (e *Executor) leftover(c *cursor.Cursor) (string, error) {
	ctx := scanner.NewContext(e.scanner.Facet())
	if err := scanner.SkipSpace(ctx, c); err != nil {
		return "", err
	}
	if c.AtEnd() {
		return "", nil
	}
	r, _, err := c.PeekRune(ctx.Facet)
	if err != nil {
		return "", err
	}
	return string(r), nil
}
