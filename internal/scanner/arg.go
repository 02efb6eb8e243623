// Package scanner reads individual values from a cursor: integers, floats,
// booleans, words, single code points, and any type implementing Scannable.
package scanner

import (
	"reflect"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/format"
	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/internal/numeric"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Context carries what a value scanner needs besides the cursor
type Context struct {
	Facet *locale.Facet
	Conv  *numeric.Converter
	Spec  format.Spec
}

// NewContext creates a context for facet f with the default spec
func NewContext(f *locale.Facet) *Context {
	if f == nil {
		f = locale.Default()
	}
	return &Context{Facet: f, Conv: numeric.NewConverter(f), Spec: format.DefaultSpec}
}

// Scannable is implemented by types that read themselves from input.
// On failure ScanFrom may leave the cursor anywhere after the last
// checkpoint; the caller rolls back.
type Scannable interface {
	ScanFrom(ctx *Context, c *cursor.Cursor) error
}

// Char receives exactly one code point, without skipping whitespace
type Char rune

type argKind int

const (
	kindInt argKind = iota
	kindInt8
	kindInt16
	kindInt32
	kindInt64
	kindUint
	kindUint8
	kindUint16
	kindUint32
	kindUint64
	kindFloat32
	kindFloat64
	kindBool
	kindString
	kindBytes
	kindChar
	kindView
	kindCustom
)

// Arg is one scan target: a pointer to a built-in type, or a Scannable
type Arg struct {
	kind   argKind
	ptr    any
	custom Scannable
}

// MakeArg wraps a scan target
func MakeArg(p any) (Arg, error) {
	if s, ok := p.(Scannable); ok {
		return Arg{kind: kindCustom, custom: s}, nil
	}
	a := Arg{ptr: p}
	switch v := p.(type) {
	case *int:
		a.kind = kindInt
	case *int8:
		a.kind = kindInt8
	case *int16:
		a.kind = kindInt16
	case *int32:
		a.kind = kindInt32
	case *int64:
		a.kind = kindInt64
	case *uint:
		a.kind = kindUint
	case *uint8:
		a.kind = kindUint8
	case *uint16:
		a.kind = kindUint16
	case *uint32:
		a.kind = kindUint32
	case *uint64:
		a.kind = kindUint64
	case *float32:
		a.kind = kindFloat32
	case *float64:
		a.kind = kindFloat64
	case *bool:
		a.kind = kindBool
	case *string:
		a.kind = kindString
	case *[]byte:
		a.kind = kindBytes
	case *Char:
		a.kind = kindChar
	case *cursor.View:
		a.kind = kindView
	default:
		return Arg{}, types.Errorf(types.InvalidOperation, "unsupported scan target %T", v)
	}
	if isNilPointer(p) {
		return Arg{}, types.Errorf(types.InvalidOperation, "nil scan target %T", p)
	}
	return a, nil
}

// MakeArgs wraps every target, failing on the first unsupported one
func MakeArgs(ps ...any) ([]Arg, error) {
	args := make([]Arg, len(ps))
	for i, p := range ps {
		a, err := MakeArg(p)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}

// Scan reads one value into the target
func (a Arg) Scan(ctx *Context, c *cursor.Cursor) error {
	switch a.kind {
	case kindInt:
		return scanInt(ctx, c, a.ptr.(*int))
	case kindInt8:
		return scanInt(ctx, c, a.ptr.(*int8))
	case kindInt16:
		return scanInt(ctx, c, a.ptr.(*int16))
	case kindInt32:
		return scanInt(ctx, c, a.ptr.(*int32))
	case kindInt64:
		return scanInt(ctx, c, a.ptr.(*int64))
	case kindUint:
		return scanInt(ctx, c, a.ptr.(*uint))
	case kindUint8:
		return scanInt(ctx, c, a.ptr.(*uint8))
	case kindUint16:
		return scanInt(ctx, c, a.ptr.(*uint16))
	case kindUint32:
		return scanInt(ctx, c, a.ptr.(*uint32))
	case kindUint64:
		return scanInt(ctx, c, a.ptr.(*uint64))
	case kindFloat32:
		return scanFloat(ctx, c, a.ptr.(*float32))
	case kindFloat64:
		return scanFloat(ctx, c, a.ptr.(*float64))
	case kindBool:
		return scanBool(ctx, c, a.ptr.(*bool))
	case kindString:
		return scanString(ctx, c, a.ptr.(*string))
	case kindBytes:
		return scanBytes(ctx, c, a.ptr.(*[]byte))
	case kindChar:
		return scanChar(ctx, c, a.ptr.(*Char))
	case kindView:
		return scanView(ctx, c, a.ptr.(*cursor.View))
	case kindCustom:
		return a.custom.ScanFrom(ctx, c)
	}
	return types.NewError(types.UnrecoverableInternalError, "scan target of unknown kind")
}

// IsCustom reports whether the target is a user-defined Scannable
func (a Arg) IsCustom() bool { return a.kind == kindCustom }

func isNilPointer(p any) bool {
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Discarded scans a T and throws it away
type Discarded[T any] struct{}

func (Discarded[T]) ScanFrom(ctx *Context, c *cursor.Cursor) error {
	var v T
	a, err := MakeArg(&v)
	if err != nil {
		return err
	}
	return a.Scan(ctx, c)
}
