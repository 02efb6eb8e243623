// Package reconstruct decides what "remaining input" a scan hands back.
//
// The caller's input is classified by how it was passed (Convention) and the
// cursor built for it by whether it references storage it does not own. The
// pair selects one of six cases, checked in order:
//
//  1. Wrapped: a cursor passed in is passed back unchanged.
//  2. Literal: a string input yields a view over the same memory.
//  3. ByReference, non-referencing cursor: nothing is rebuilt; the leftover
//     re-slices the caller's own container.
//  4. ByReference, referencing cursor: the leftover owns its storage.
//  5. ByValue, non-referencing cursor: a fresh container of the input's
//     type holds the remainder.
//  6. ByValue, referencing cursor: the leftover owns its storage.
package reconstruct

import (
	"io"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Convention is how the caller passed its input
type Convention int

const (
	Wrapped Convention = iota
	Literal
	ByReference
	ByValue
)

func (c Convention) String() string {
	switch c {
	case Wrapped:
		return "wrapped"
	case Literal:
		return "literal"
	case ByReference:
		return "by-reference"
	case ByValue:
		return "by-value"
	}
	return "unknown"
}

// Case is the reconstruction rule applied to a result
type Case int

const (
	PassThrough      Case = iota + 1 // wrapped cursor returned as is
	LiteralView                      // view over the literal's memory
	ReuseContainer                   // caller's container re-sliced, not reconstructed
	DerefReference                   // by reference, storage taken over
	MaterializeValue                 // by value, fresh container of the same type
	DerefValue                       // by value, storage taken over
)

func (c Case) String() string {
	switch c {
	case PassThrough:
		return "pass-through"
	case LiteralView:
		return "literal-view"
	case ReuseContainer:
		return "reuse-container"
	case DerefReference:
		return "deref-reference"
	case MaterializeValue:
		return "materialize-value"
	case DerefValue:
		return "deref-value"
	}
	return "unknown"
}

// Classify selects the reconstruction case. The first matching rule wins.
func Classify(conv Convention, internalRef bool) Case {
	switch {
	case conv == Wrapped:
		return PassThrough
	case conv == Literal:
		return LiteralView
	case conv == ByReference && !internalRef:
		return ReuseContainer
	case conv == ByReference:
		return DerefReference
	case !internalRef:
		return MaterializeValue
	default:
		return DerefValue
	}
}

// Input is caller input prepared for scanning
type Input struct {
	orig any
	conv Convention
	cur  *cursor.Cursor
}

// Wrap classifies in and builds the cursor the scan runs over. putback sets
// the rollback window of stream inputs.
func Wrap(in any, putback int) (*Input, error) {
	switch v := in.(type) {
	case *cursor.Cursor:
		if v == nil {
			break
		}
		return &Input{orig: v, conv: Wrapped, cur: v}, nil
	case string:
		return &Input{orig: v, conv: Literal, cur: cursor.FromString(v)}, nil
	case []byte:
		return &Input{orig: v, conv: ByValue, cur: cursor.FromBytes(v)}, nil
	case *[]byte:
		if v == nil {
			break
		}
		return &Input{orig: v, conv: ByReference, cur: cursor.FromBytes(*v)}, nil
	case *string:
		if v == nil {
			break
		}
		return &Input{orig: v, conv: ByReference, cur: cursor.FromString(*v)}, nil
	case cursor.Segments:
		return &Input{orig: v, conv: ByValue, cur: cursor.FromSegmentsRef(v)}, nil
	case *cursor.Segments:
		if v == nil {
			break
		}
		return &Input{orig: v, conv: ByReference, cur: cursor.FromSegmentsRef(*v)}, nil
	case io.Reader:
		if v == nil {
			break
		}
		return &Input{orig: v, conv: ByReference, cur: cursor.FromReader(v, putback)}, nil
	}
	return nil, types.Errorf(types.InvalidOperation, "cannot scan from %T", in)
}

// Cursor returns the cursor the scan runs over
func (in *Input) Cursor() *cursor.Cursor { return in.cur }

// Convention returns how the input was passed
func (in *Input) Convention() Convention { return in.conv }

// Finish builds the result of a scan over in. err may be nil.
func Finish(in *Input, err error, count int) Result {
	r := Result{err: types.AsError(err), count: count}
	if in == nil {
		return r
	}

	cs := Classify(in.conv, in.cur.IsReference())
	r.cs = cs
	r.orig = in.orig
	r.off = in.cur.Offset()
	logger.Debug("reconstructing %s input (%s cursor) at offset %d: %s", in.conv, in.cur.Kind(), r.off, cs)

	var rerr error
	switch cs {
	case PassThrough:
		r.rng = in.cur
	case LiteralView:
		r.rng, rerr = in.cur.Rewrap(cursor.KindString)
	case ReuseContainer:
		// Left unbuilt; Range and Reconstruct slice the caller's container
	case DerefReference, DerefValue:
		r.rng, rerr = in.cur.Deref()
	case MaterializeValue:
		r.rng, rerr = in.cur.Rewrap(cursor.KindOwnedBytes)
	}
	if rerr != nil {
		// Only reachable if the kind table and Wrap disagree
		r.err = types.NewError(types.UnrecoverableInternalError, rerr.Error())
		r.rng = in.cur
	}
	return r
}

// Failed builds a result for input that could not be wrapped
func Failed(err error) Result {
	return Result{err: types.AsError(err)}
}
