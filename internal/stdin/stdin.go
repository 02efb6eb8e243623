// Package stdin shares one caching cursor over standard input across every
// scan in the process.
package stdin

import (
	"io"
	"os"
	"sync"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
)

// Range is a lockable caching cursor over a reader
type Range struct {
	mu  sync.Mutex
	cur *cursor.Cursor
}

var (
	defaultOnce  sync.Once
	defaultRange *Range
)

// Default returns the process-wide range over os.Stdin
func Default() *Range {
	defaultOnce.Do(func() {
		defaultRange = New(os.Stdin)
	})
	return defaultRange
}

// New creates a range over r
func New(r io.Reader) *Range {
	return &Range{cur: cursor.FromCaching(r)}
}

// Lock acquires the range and returns its cursor. The cursor must not be
// used after Unlock.
func (r *Range) Lock() *cursor.Cursor {
	r.mu.Lock()
	return r.cur
}

// Unlock releases the range
func (r *Range) Unlock() {
	r.mu.Unlock()
}

// Sync hands the unconsumed input back as a reader: what the cursor has
// buffered but not consumed, followed by the rest of the raw stream. Later
// scans continue from the same reader, so input the caller reads through it
// is no longer seen by the range.
func (r *Range) Sync() io.Reader {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cur.SetRollbackPoint()
	rest := r.cur.Reader()
	r.cur = cursor.FromCaching(rest)
	return rest
}
