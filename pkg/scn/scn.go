// Package scn reads typed values out of strings, byte slices, segmented
// buffers, and readers, reporting exactly how much input was consumed.
//
//	var a, b int
//	res := scn.Scan("123 456", "{} {}", &a, &b)
//	if err := res.Err(); err != nil { ... }
//	rest := res.String() // ""
//
// Every operation returns a Result carrying the error, if any, and the
// leftover input. A failing argument is rolled back; arguments scanned
// before it keep their values and stay consumed.
package scn

import (
	"golang.org/x/exp/constraints"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/format"
	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/internal/numeric"
	"github.com/cybertec-postgresql/pgscan/internal/reconstruct"
	"github.com/cybertec-postgresql/pgscan/internal/scanner"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

type (
	Result    = reconstruct.Result
	Cursor    = cursor.Cursor
	View      = cursor.View
	Segments  = cursor.Segments
	Char      = scanner.Char
	Context   = scanner.Context
	Scannable = scanner.Scannable
	Facet     = locale.Facet
)

// Scanner holds the settings shared by a series of scans. The zero value is
// not usable; create one with New.
type Scanner struct {
	facet   *locale.Facet
	putback int
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLocale sets the facet used for classification, boolean names, and
// numbers marked as localized
func WithLocale(f *locale.Facet) Option {
	return func(s *Scanner) {
		if f != nil {
			s.facet = f
		}
	}
}

// WithPutback sets the rollback window kept for io.Reader inputs
func WithPutback(n int) Option {
	return func(s *Scanner) {
		s.putback = n
	}
}

// New creates a scanner
func New(opts ...Option) *Scanner {
	s := &Scanner{facet: locale.Default(), putback: cursor.DefaultPutback}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var std = New()

// Facet returns the scanner's locale facet
func (s *Scanner) Facet() *locale.Facet { return s.facet }

func (s *Scanner) context() *scanner.Context {
	return scanner.NewContext(s.facet)
}

// Scan reads args from in according to a brace format such as "{} {:x}".
//
// in may be a string, []byte, *[]byte, *string, Segments, *Segments, an
// io.Reader, or the *Cursor of an earlier result.
func (s *Scanner) Scan(in any, f string, args ...any) Result {
	tokens, err := format.Parse(f, format.Brace)
	if err != nil {
		return s.fail(in, err)
	}
	return s.vscan(in, tokens, args)
}

// Scanf reads args from in according to a scanf format such as "%d %s"
func (s *Scanner) Scanf(in any, f string, args ...any) Result {
	tokens, err := format.Parse(f, format.Scanf)
	if err != nil {
		return s.fail(in, err)
	}
	return s.vscan(in, tokens, args)
}

// ScanDefault reads args separated by whitespace
func (s *Scanner) ScanDefault(in any, args ...any) Result {
	return s.vscan(in, format.Empty(len(args)), args)
}

// fail reports a request error while still handing back the untouched input
func (s *Scanner) fail(in any, err error) Result {
	input, werr := reconstruct.Wrap(in, s.putback)
	if werr != nil {
		return reconstruct.Failed(err)
	}
	return reconstruct.Finish(input, err, 0)
}

func (s *Scanner) vscan(in any, tokens []format.Token, targets []any) Result {
	input, err := reconstruct.Wrap(in, s.putback)
	if err != nil {
		return reconstruct.Failed(err)
	}
	args, err := scanner.MakeArgs(targets...)
	if err != nil {
		return reconstruct.Finish(input, err, 0)
	}
	count, err := run(s.context(), input.Cursor(), tokens, args)
	return reconstruct.Finish(input, err, count)
}

// run drives tokens over c. Each successfully scanned argument becomes the
// new rollback point; a failing one is rolled back and ends the scan.
func run(ctx *scanner.Context, c *cursor.Cursor, tokens []format.Token, args []scanner.Arg) (int, error) {
	count := 0
	for _, tok := range tokens {
		switch tok.Type {
		case format.Whitespace:
			if err := scanner.SkipSpace(ctx, c); err != nil {
				return count, err
			}

		case format.Literal:
			if err := matchLiteral(c, tok.Text); err != nil {
				if rerr := c.ResetToRollbackPoint(); rerr != nil {
					return count, rerr
				}
				return count, err
			}

		case format.Placeholder:
			if tok.Arg >= len(args) {
				return count, types.Errorf(types.InvalidOperation,
					"format refers to argument %d but only %d were given", tok.Arg, len(args))
			}
			ctx.Spec = tok.Spec
			if err := args[tok.Arg].Scan(ctx, c); err != nil {
				if rerr := c.ResetToRollbackPoint(); rerr != nil {
					return count, rerr
				}
				return count, err
			}
			c.SetRollbackPoint()
			count++
		}
	}
	return count, nil
}

func matchLiteral(c *cursor.Cursor, lit string) error {
	for i := 0; i < len(lit); i++ {
		b, err := c.ReadByte()
		if err != nil {
			return err
		}
		if b != lit[i] {
			return types.Errorf(types.InvalidScannedValue, "Expected %q in input", lit)
		}
	}
	return nil
}

// Scan reads args from in using a brace format and the default scanner
func Scan(in any, f string, args ...any) Result {
	return std.Scan(in, f, args...)
}

// Scanf reads args from in using a scanf format and the default scanner
func Scanf(in any, f string, args ...any) Result {
	return std.Scanf(in, f, args...)
}

// ScanDefault reads whitespace-separated args from in
func ScanDefault(in any, args ...any) Result {
	return std.ScanDefault(in, args...)
}

// ScanLocalized scans with facet f. Placeholders marked L read numbers
// with the facet's punctuation.
func ScanLocalized(f *locale.Facet, in any, layout string, args ...any) Result {
	return New(WithLocale(f), WithPutback(std.putback)).Scan(in, layout, args...)
}

// ValueResult is the result of ScanValue
type ValueResult[T any] struct {
	Result
	Value T
}

// ScanValue reads one T after skipping leading whitespace
func ScanValue[T any](in any) ValueResult[T] {
	return ScanValueWith[T](std, in)
}

// ScanValueWith is ScanValue using scanner s
func ScanValueWith[T any](s *Scanner, in any) ValueResult[T] {
	var v T
	res := s.vscan(in, format.Empty(1), []any{&v})
	return ValueResult[T]{Result: res, Value: v}
}

// Discard returns a target that scans a T and drops it
func Discard[T any]() scanner.Discarded[T] {
	return scanner.Discarded[T]{}
}

// ParseInteger parses an integer from the start of s. Only a leading '-'
// is accepted. The second result is the number of bytes used.
func ParseInteger[T constraints.Integer](s string, base int) (T, int, error) {
	return numeric.ParseInteger[T]([]byte(s), base)
}

// ParseFloat parses a floating-point number from the start of s
func ParseFloat[T constraints.Float](s string) (T, int, error) {
	return numeric.ParseFloat[T]([]byte(s))
}
