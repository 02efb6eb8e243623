package cursor

import "github.com/cybertec-postgresql/pgscan/pkg/types"

// Kind identifies the representation behind a Cursor. Every capability of a
// cursor is a function of its kind alone.
type Kind int

const (
	KindString      Kind = iota // read-only view over a string
	KindBytes                   // read-only view over a caller's byte slice
	KindOwnedBytes              // byte buffer owned by the cursor
	KindSegments                // owned segmented container
	KindSegmentsRef             // segmented container owned by the caller
	KindStream                  // forward-only reader with a bounded putback window
	KindCaching                 // line-buffered reader retaining input since the checkpoint
)

var kindNames = [...]string{
	KindString:      "string",
	KindBytes:       "bytes",
	KindOwnedBytes:  "owned-bytes",
	KindSegments:    "segments",
	KindSegmentsRef: "segments-ref",
	KindStream:      "stream",
	KindCaching:     "caching",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsDirect reports whether each element read is itself a character. Segmented
// containers are direct: only their storage is split, every element is still
// a byte. Readers are not, since every element comes out of a fallible Read.
func (k Kind) IsDirect() bool {
	return k != KindStream && k != KindCaching
}

// IsContiguous reports whether the remaining input is one memory block
func (k Kind) IsContiguous() bool {
	return k == KindString || k == KindBytes || k == KindOwnedBytes
}

// IsSized reports whether the length of the input is known up front
func (k Kind) IsSized() bool {
	return k == KindString || k == KindBytes || k == KindOwnedBytes ||
		k == KindSegments || k == KindSegmentsRef
}

// ProvidesBufferAccess reports whether a run of already available bytes
// can be inspected without consuming it
func (k Kind) ProvidesBufferAccess() bool {
	return k != KindSegments && k != KindSegmentsRef
}

// IsCaching reports whether the source keeps everything since the last
// checkpoint, making rollback free
func (k Kind) IsCaching() bool {
	return k == KindCaching
}

// IsReference reports whether the underlying storage belongs to someone else
func (k Kind) IsReference() bool {
	return k == KindSegmentsRef || k == KindStream || k == KindCaching
}

// source is the storage behind a cursor. Offsets are absolute from the
// origin of the input and never move.
type source interface {
	kind() Kind
	// at returns the byte at off, reading more input when necessary
	at(off int) (byte, error)
	// retains reports whether off is still inside the kept window
	retains(off int) bool
	// release allows the source to forget everything before off
	release(off int)
	clone() source
}

// sizedSource knows its total length
type sizedSource interface {
	source
	length() int
	// span copies [from, to) into a fresh slice
	span(from, to int) []byte
}

// contiguousSource exposes its bytes as a single view
type contiguousSource interface {
	sizedSource
	view(from, to int) View
}

// bufferedSource exposes bytes already read but not yet consumed
type bufferedSource interface {
	source
	buffered(off int) []byte
}

var errEOF = types.NewError(types.EndOfRange, "")

func errPutback() error {
	return types.NewError(types.UnrecoverableSourceError, "Putback failed")
}
