package cursor

import (
	"bytes"
	"errors"
	"io"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// DefaultPutback is the rollback window kept by stream cursors unless told otherwise
const DefaultPutback = 512

const readChunk = 4096

// streamSource reads forward-only input and keeps at most limit bytes behind
// the furthest offset read so far. Offsets before the window are gone.
type streamSource struct {
	r     io.Reader
	buf   []byte // buf[0] is the byte at offset base
	base  int
	limit int
	err   error // sticky read error
}

func newStreamSource(r io.Reader, limit int) *streamSource {
	if limit <= 0 {
		limit = DefaultPutback
	}
	return &streamSource{r: r, limit: limit}
}

func (s *streamSource) kind() Kind { return KindStream }

func (s *streamSource) at(off int) (byte, error) {
	if off < s.base {
		return 0, errPutback()
	}
	for off >= s.base+len(s.buf) {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	b := s.buf[off-s.base]
	s.trim(off - s.limit)
	return b, nil
}

// fill reads at least one more byte or reports why it cannot
func (s *streamSource) fill() error {
	if s.err != nil {
		return s.err
	}
	var chunk [readChunk]byte
	for {
		n, err := s.r.Read(chunk[:])
		s.buf = append(s.buf, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.err = errEOF
			} else {
				s.err = types.NewError(types.UnrecoverableSourceError, err.Error())
			}
			if n > 0 {
				return nil
			}
			return s.err
		}
		if n > 0 {
			return nil
		}
	}
}

// trim drops everything before off
func (s *streamSource) trim(off int) {
	drop := off - s.base
	if drop <= 0 {
		return
	}
	if drop > len(s.buf) {
		drop = len(s.buf)
	}
	s.buf = s.buf[drop:]
	s.base += drop
	// Compact once the dead prefix outgrows the live window
	if cap(s.buf) > 4*readChunk && len(s.buf) < cap(s.buf)/4 {
		s.buf = append([]byte(nil), s.buf...)
	}
}

func (s *streamSource) retains(off int) bool { return off >= s.base }

func (s *streamSource) release(off int) { s.trim(off) }

// clone shares the stream; a forward-only reader cannot be duplicated
func (s *streamSource) clone() source { return s }

func (s *streamSource) buffered(off int) []byte {
	if off < s.base || off >= s.base+len(s.buf) {
		return nil
	}
	return s.buf[off-s.base:]
}

// rest returns a reader yielding the retained bytes from off followed by the
// unread remainder of the stream
func (s *streamSource) rest(off int) io.Reader {
	pending := append([]byte(nil), s.buffered(off)...)
	if s.err != nil {
		return bytes.NewReader(pending)
	}
	return io.MultiReader(bytes.NewReader(pending), s.r)
}
