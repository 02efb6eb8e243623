package scn

import (
	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/reconstruct"
	"github.com/cybertec-postgresql/pgscan/internal/scanner"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// List receives the values read by ScanList
type List[T any] interface {
	Append(v T)
	// Full reports whether the list can take no more values
	Full() bool
}

// SpanList fills a caller-provided slice without growing it
type SpanList[T any] struct {
	buf []T
	n   int
}

// NewSpanList creates a list with the capacity of len(buf)
func NewSpanList[T any](buf []T) *SpanList[T] {
	return &SpanList[T]{buf: buf}
}

func (l *SpanList[T]) Append(v T) {
	l.buf[l.n] = v
	l.n++
}

func (l *SpanList[T]) Full() bool { return l.n == len(l.buf) }

// Values returns the filled part of the slice
func (l *SpanList[T]) Values() []T { return l.buf[:l.n] }

// SliceList grows without bound
type SliceList[T any] struct {
	Values []T
}

func (l *SliceList[T]) Append(v T) { l.Values = append(l.Values, v) }

func (l *SliceList[T]) Full() bool { return false }

// ScanList reads values into list until the input ends, the list is full, or
// the separator is missing. A separator of 0 means values are separated by
// whitespace only. A character other than the separator is left in the input
// and the list still succeeds.
func ScanList[T any](in any, list List[T], separator byte) Result {
	return ScanListWith(std, in, list, separator)
}

// ScanListWith is ScanList using scanner s
func ScanListWith[T any](s *Scanner, in any, list List[T], separator byte) Result {
	return scanList(s, in, list, 0, false, separator)
}

// ScanListUntil is ScanList that also stops in front of until. The until
// character is left in the input.
func ScanListUntil[T any](in any, list List[T], until, separator byte) Result {
	return ScanListUntilWith(std, in, list, until, separator)
}

// ScanListUntilWith is ScanListUntil using scanner s
func ScanListUntilWith[T any](s *Scanner, in any, list List[T], until, separator byte) Result {
	return scanList(s, in, list, until, true, separator)
}

func scanList[T any](s *Scanner, in any, list List[T], until byte, hasUntil bool, separator byte) Result {
	input, err := reconstruct.Wrap(in, s.putback)
	if err != nil {
		return reconstruct.Failed(err)
	}
	c := input.Cursor()
	ctx := s.context()

	count := 0
	for !list.Full() {
		if hasUntil {
			stop, err := atUntil(ctx, c, until)
			if err != nil {
				return reconstruct.Finish(input, err, count)
			}
			if stop {
				break
			}
		}

		var v T
		if err := scanElement(ctx, c, &v); err != nil {
			if rerr := c.ResetToRollbackPoint(); rerr != nil {
				return reconstruct.Finish(input, rerr, count)
			}
			if types.AsError(err).Kind == types.EndOfRange {
				break
			}
			return reconstruct.Finish(input, err, count)
		}
		list.Append(v)
		count++
		c.SetRollbackPoint()
		if list.Full() {
			break
		}

		more, err := nextElement(ctx, c, until, hasUntil, separator)
		if err != nil {
			return reconstruct.Finish(input, err, count)
		}
		if !more {
			break
		}
		c.SetRollbackPoint()
	}
	return reconstruct.Finish(input, nil, count)
}

func scanElement[T any](ctx *scanner.Context, c *cursor.Cursor, v *T) error {
	a, err := scanner.MakeArg(v)
	if err != nil {
		return err
	}
	if err := scanner.SkipSpace(ctx, c); err != nil {
		return err
	}
	return a.Scan(ctx, c)
}

// atUntil skips whitespace and reports whether until comes next
func atUntil(ctx *scanner.Context, c *cursor.Cursor, until byte) (bool, error) {
	if err := scanner.SkipSpace(ctx, c); err != nil {
		return false, err
	}
	b, err := c.Peek()
	if err != nil {
		if types.AsError(err).Kind == types.EndOfRange {
			return true, nil
		}
		return false, err
	}
	return b == until, nil
}

// nextElement consumes the separator after a value and reports whether
// another value should be read. Anything unexpected is put back.
func nextElement(ctx *scanner.Context, c *cursor.Cursor, until byte, hasUntil bool, separator byte) (bool, error) {
	if err := scanner.SkipSpace(ctx, c); err != nil {
		return false, err
	}
	b, err := c.ReadByte()
	if err != nil {
		if types.AsError(err).Kind == types.EndOfRange {
			return false, nil
		}
		return false, err
	}

	switch {
	case hasUntil && b == until:
		return false, c.Putback(1)
	case separator != 0 && b == separator:
		return true, nil
	case separator != 0:
		return false, c.Putback(1)
	}
	// Whitespace-separated: b starts the next value
	return true, c.Putback(1)
}
