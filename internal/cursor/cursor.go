// Package cursor implements the input window every scan runs over: a
// position into a source plus the number of units consumed since the last
// checkpoint, with rollback to that checkpoint.
//
// Positions are plain offsets from the origin of the input. Copying a Cursor
// therefore never leaves it pointing into storage it does not own.
package cursor

import (
	"io"

	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/internal/logger"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Cursor is a checkpointed position in a source.
//
// For caching sources pos stays on the checkpoint and only read moves; the
// logical offset is pos+read. For every other kind pos is the logical offset
// and read counts how far it moved since the checkpoint.
type Cursor struct {
	src  source
	pos  int
	read int
}

// FromString creates a cursor viewing s
func FromString(s string) *Cursor {
	return &Cursor{src: &viewSource{s: s, str: true, k: KindString}}
}

// FromBytes creates a cursor viewing b without copying it
func FromBytes(b []byte) *Cursor {
	return &Cursor{src: &viewSource{b: b, k: KindBytes}}
}

// FromOwnedBytes creates a cursor over a private copy of b
func FromOwnedBytes(b []byte) *Cursor {
	return &Cursor{src: &viewSource{b: append([]byte(nil), b...), k: KindOwnedBytes}}
}

// FromSegments creates a cursor over a private copy of segs
func FromSegments(segs Segments) *Cursor {
	return &Cursor{src: newSegmentSource(segs.Clone(), KindSegments)}
}

// FromSegmentsRef creates a cursor over the caller's segments
func FromSegmentsRef(segs Segments) *Cursor {
	return &Cursor{src: newSegmentSource(segs, KindSegmentsRef)}
}

// FromReader creates a forward-only cursor over r keeping putback bytes of
// history. A putback of zero or less selects DefaultPutback.
func FromReader(r io.Reader, putback int) *Cursor {
	return &Cursor{src: newStreamSource(r, putback)}
}

// FromCaching creates a line-buffered cursor over r that retains all input
// since the last checkpoint
func FromCaching(r io.Reader) *Cursor {
	return &Cursor{src: newCachingSource(r)}
}

// Kind returns the source representation
func (c *Cursor) Kind() Kind { return c.src.kind() }

func (c *Cursor) IsDirect() bool             { return c.Kind().IsDirect() }
func (c *Cursor) IsContiguous() bool         { return c.Kind().IsContiguous() }
func (c *Cursor) IsSized() bool              { return c.Kind().IsSized() }
func (c *Cursor) ProvidesBufferAccess() bool { return c.Kind().ProvidesBufferAccess() }
func (c *Cursor) IsCaching() bool            { return c.Kind().IsCaching() }
func (c *Cursor) IsReference() bool          { return c.Kind().IsReference() }

// Offset returns the logical position from the origin of the input
func (c *Cursor) Offset() int {
	if c.IsCaching() {
		return c.pos + c.read
	}
	return c.pos
}

// Read returns the number of units consumed since the last checkpoint
func (c *Cursor) Read() int { return c.read }

// Advance moves forward by n units
func (c *Cursor) Advance(n int) {
	if !c.IsCaching() {
		c.pos += n
	}
	c.read += n
}

// AdvanceTo moves forward to the absolute offset off. Only sized sources
// can jump.
func (c *Cursor) AdvanceTo(off int) error {
	src, ok := c.src.(sizedSource)
	if !ok {
		return types.Errorf(types.InvalidOperation, "cannot jump within a %s source", c.Kind())
	}
	if off < c.Offset() || off > src.length() {
		return types.Errorf(types.InvalidOperation, "offset %d outside [%d, %d]", off, c.Offset(), src.length())
	}
	c.Advance(off - c.Offset())
	return nil
}

// SetRollbackPoint commits everything consumed so far
func (c *Cursor) SetRollbackPoint() {
	if c.IsCaching() {
		c.pos += c.read
	}
	c.read = 0
	c.src.release(c.pos)
}

// ResetToRollbackPoint returns to the last checkpoint. The cursor steps back
// one unit at a time and stops with an unrecoverable_source_error as soon as
// a step would leave the window the source still holds.
func (c *Cursor) ResetToRollbackPoint() error {
	if c.IsCaching() {
		c.read = 0
		return nil
	}
	for ; c.read > 0; c.read-- {
		if !c.src.retains(c.pos - 1) {
			logger.Debug("putback failed at offset %d with %d units left to roll back (%s source)", c.pos, c.read, c.Kind())
			return errPutback()
		}
		c.pos--
	}
	return nil
}

// Putback steps back n units without touching the checkpoint
func (c *Cursor) Putback(n int) error {
	for ; n > 0; n-- {
		if c.IsCaching() {
			// Nothing before the checkpoint is cached
			if c.read == 0 {
				return errPutback()
			}
			c.read--
			continue
		}
		if !c.src.retains(c.pos - 1) {
			logger.Debug("putback failed at offset %d (%s source)", c.pos, c.Kind())
			return errPutback()
		}
		c.pos--
		c.read--
	}
	return nil
}

// Peek returns the next byte without consuming it
func (c *Cursor) Peek() (byte, error) {
	return c.src.at(c.Offset())
}

// PeekAt returns the byte i positions ahead without consuming anything
func (c *Cursor) PeekAt(i int) (byte, error) {
	return c.src.at(c.Offset() + i)
}

// PeekN returns up to n upcoming bytes. Fewer are returned at the end of
// input; none at all is an end_of_range error.
func (c *Cursor) PeekN(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := c.PeekAt(i)
		if err != nil {
			if len(out) > 0 && types.AsError(err).Kind == types.EndOfRange {
				break
			}
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadByte consumes one byte
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.Peek()
	if err != nil {
		return 0, err
	}
	c.Advance(1)
	return b, nil
}

// PeekRune decodes the next code point using the encoding of f
func (c *Cursor) PeekRune(f *locale.Facet) (rune, int, error) {
	b, err := c.Peek()
	if err != nil {
		return 0, 0, err
	}
	if b < 0x80 && f.Encoding() == nil {
		return rune(b), 1, nil
	}
	n := f.UnitLen(b)
	if n == 0 {
		n = f.MaxUnitLen()
	}
	p, err := c.PeekN(n)
	if err != nil {
		return 0, 0, err
	}
	return f.DecodeRune(p)
}

// ReadRune consumes one code point decoded with the encoding of f
func (c *Cursor) ReadRune(f *locale.Facet) (rune, int, error) {
	r, n, err := c.PeekRune(f)
	if err != nil {
		return 0, 0, err
	}
	c.Advance(n)
	return r, n, nil
}

// AtEnd reports whether no input is left
func (c *Cursor) AtEnd() bool {
	_, err := c.Peek()
	return err != nil
}

// Data returns the remaining input as one view. It fails for sources that
// are not contiguous.
func (c *Cursor) Data() (View, bool) {
	src, ok := c.src.(contiguousSource)
	if !ok {
		return View{}, false
	}
	return src.view(c.Offset(), src.length()), true
}

// Slice returns the view [from, to) of a contiguous source
func (c *Cursor) Slice(from, to int) (View, bool) {
	src, ok := c.src.(contiguousSource)
	if !ok {
		return View{}, false
	}
	return src.view(from, to), true
}

// Size returns the number of remaining bytes of a sized source
func (c *Cursor) Size() (int, bool) {
	src, ok := c.src.(sizedSource)
	if !ok {
		return 0, false
	}
	return src.length() - c.Offset(), true
}

// Buffered returns the bytes already available from the current offset
// without reading further. Callers must not modify the result.
func (c *Cursor) Buffered() []byte {
	src, ok := c.src.(bufferedSource)
	if !ok {
		return nil
	}
	return src.buffered(c.Offset())
}

// Remaining copies the rest of a sized source
func (c *Cursor) Remaining() ([]byte, bool) {
	src, ok := c.src.(sizedSource)
	if !ok {
		return nil, false
	}
	return src.span(c.Offset(), src.length()), true
}

// Segments returns the remaining segments of a segmented source, sharing
// memory with it
func (c *Cursor) Segments() (Segments, bool) {
	src, ok := c.src.(*segmentSource)
	if !ok {
		return nil, false
	}
	return src.remaining(c.Offset()), true
}

// Clone copies the cursor. Owned storage is duplicated and the offset
// re-applied to the copy; referenced storage is shared.
func (c *Cursor) Clone() *Cursor {
	return &Cursor{src: c.src.clone(), pos: c.pos, read: c.read}
}

// Rewrap returns a cursor of the given kind over the remaining input.
//
// Rewrapping to the current kind is free: the source is shared and only
// the offset carries over. Any other kind gets a fresh source holding a
// copy of [offset, end), which requires a sized source.
func (c *Cursor) Rewrap(k Kind) (*Cursor, error) {
	if k == c.Kind() {
		return &Cursor{src: c.src, pos: c.Offset()}, nil
	}

	src, ok := c.src.(sizedSource)
	if !ok {
		return nil, types.Errorf(types.InvalidOperation, "cannot rewrap a %s source as %s", c.Kind(), k)
	}
	off := c.Offset()

	switch k {
	case KindString:
		if vs, ok := src.(*viewSource); ok && vs.str {
			return FromString(vs.s[off:]), nil
		}
		return FromString(string(src.span(off, src.length()))), nil
	case KindBytes:
		return FromBytes(src.span(off, src.length())), nil
	case KindOwnedBytes:
		return &Cursor{src: &viewSource{b: src.span(off, src.length()), k: KindOwnedBytes}}, nil
	case KindSegments:
		if ss, ok := src.(*segmentSource); ok {
			return FromSegments(ss.remaining(off)), nil
		}
		return &Cursor{src: newSegmentSource(Segments{src.span(off, src.length())}, KindSegments)}, nil
	}
	return nil, types.Errorf(types.InvalidOperation, "cannot rewrap a %s source as %s", c.Kind(), k)
}

// Deref returns a cursor that owns the remaining input. Referenced segments
// are copied; streams stay streams because their history is already gone.
func (c *Cursor) Deref() (*Cursor, error) {
	if c.Kind() == KindSegmentsRef {
		return c.Rewrap(KindSegments)
	}
	return c.Rewrap(c.Kind())
}

// Reader returns an io.Reader over the remaining input. For streams it
// yields the retained window followed by the unread rest of the stream.
func (c *Cursor) Reader() io.Reader {
	switch src := c.src.(type) {
	case *streamSource:
		return src.rest(c.Offset())
	case *cachingSource:
		return src.rest(c.Offset())
	case sizedSource:
		return &remainingReader{src: src, off: c.Offset()}
	}
	return nil
}

type remainingReader struct {
	src sizedSource
	off int
}

func (r *remainingReader) Read(p []byte) (int, error) {
	if r.off >= r.src.length() {
		return 0, io.EOF
	}
	end := r.off + len(p)
	if end > r.src.length() {
		end = r.src.length()
	}
	n := copy(p, r.src.span(r.off, end))
	r.off += n
	return n, nil
}
