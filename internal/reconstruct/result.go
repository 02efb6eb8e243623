package reconstruct

import (
	"io"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Result is the outcome of a scan: an error (possibly the "good" state), the
// number of values stored, and the input left over. It is read-only.
type Result struct {
	err   types.Error
	count int
	cs    Case
	rng   *cursor.Cursor // nil for ReuseContainer until asked for
	orig  any
	off   int
}

// OK reports whether the scan succeeded
func (r Result) OK() bool { return r.err.OK() }

// Err returns nil on success and the scan error otherwise
func (r Result) Err() error { return r.err.Err() }

// Error returns the error value, which is the zero Error on success
func (r Result) Error() types.Error { return r.err }

// Count returns the number of values successfully scanned
func (r Result) Count() int { return r.count }

// Case returns the reconstruction rule applied to this result
func (r Result) Case() Case { return r.cs }

// Reconstructed reports whether the leftover is a new object rather than a
// re-slice of the caller's container
func (r Result) Reconstructed() bool { return r.cs != ReuseContainer }

// Range returns a cursor over the leftover input, suitable for passing to
// the next scan. It is nil when the input could not be wrapped at all.
func (r Result) Range() *cursor.Cursor {
	if r.rng != nil {
		return r.rng
	}
	switch p := r.orig.(type) {
	case *[]byte:
		return cursor.FromBytes((*p)[r.off:])
	case *string:
		return cursor.FromString((*p)[r.off:])
	}
	return nil
}

// String returns the leftover input of a sized source. Streams are not
// drained; use Reconstruct or Range for those.
func (r Result) String() string {
	if p, ok := r.orig.(*string); ok && r.cs == ReuseContainer {
		return (*p)[r.off:]
	}
	c := r.Range()
	if c == nil {
		return ""
	}
	if v, ok := c.Data(); ok {
		return v.String()
	}
	if b, ok := c.Remaining(); ok {
		return string(b)
	}
	return ""
}

// Bytes returns the leftover input of a sized source
func (r Result) Bytes() []byte {
	if p, ok := r.orig.(*[]byte); ok && r.cs == ReuseContainer {
		return (*p)[r.off:]
	}
	c := r.Range()
	if c == nil {
		return nil
	}
	if v, ok := c.Data(); ok {
		if v.IsString() {
			return []byte(v.String())
		}
		return v.Bytes()
	}
	b, _ := c.Remaining()
	return b
}

// Reconstruct returns the leftover in the caller's representation:
//
//	*cursor.Cursor    the same cursor
//	string            a substring of the input
//	[]byte            a fresh slice holding the remainder
//	*[]byte, *string  the remainder of the caller's container, uncopied
//	cursor.Segments   owned segments
//	io.Reader         a reader over the buffered and unread input
func (r Result) Reconstruct() any {
	switch p := r.orig.(type) {
	case *cursor.Cursor:
		return p
	case string:
		return r.String()
	case []byte:
		return r.Bytes()
	case *[]byte:
		return (*p)[r.off:]
	case *string:
		return (*p)[r.off:]
	case cursor.Segments, *cursor.Segments:
		segs, _ := r.rng.Segments()
		return segs
	case io.Reader:
		return r.rng.Reader()
	}
	return nil
}

// As returns the reconstructed leftover as T
func As[T any](r Result) (T, bool) {
	v, ok := r.Reconstruct().(T)
	return v, ok
}
