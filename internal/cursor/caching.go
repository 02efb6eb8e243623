package cursor

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// cachingSource reads line by line and keeps everything since the last
// checkpoint, so rolling back never fails.
type cachingSource struct {
	br   *bufio.Reader
	buf  []byte // buf[0] is the byte at offset base
	base int
	err  error
}

func newCachingSource(r io.Reader) *cachingSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &cachingSource{br: br}
}

func (s *cachingSource) kind() Kind { return KindCaching }

func (s *cachingSource) at(off int) (byte, error) {
	if off < s.base {
		return 0, errPutback()
	}
	for off >= s.base+len(s.buf) {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	return s.buf[off-s.base], nil
}

// fill appends the next line, or what is left of it, to the cache
func (s *cachingSource) fill() error {
	if s.err != nil {
		return s.err
	}
	line, err := s.br.ReadSlice('\n')
	s.buf = append(s.buf, line...)
	if err != nil && !errors.Is(err, bufio.ErrBufferFull) {
		if errors.Is(err, io.EOF) {
			s.err = errEOF
		} else {
			s.err = types.NewError(types.UnrecoverableSourceError, err.Error())
		}
		if len(line) == 0 {
			return s.err
		}
	}
	return nil
}

func (s *cachingSource) retains(off int) bool { return off >= s.base }

func (s *cachingSource) release(off int) {
	drop := off - s.base
	if drop <= 0 {
		return
	}
	if drop > len(s.buf) {
		drop = len(s.buf)
	}
	s.buf = append(s.buf[:0], s.buf[drop:]...)
	s.base += drop
}

func (s *cachingSource) clone() source { return s }

func (s *cachingSource) buffered(off int) []byte {
	if off < s.base || off >= s.base+len(s.buf) {
		return nil
	}
	return s.buf[off-s.base:]
}

// rest returns a reader over the cached bytes from off followed by whatever
// the underlying reader still holds, including its own buffer
func (s *cachingSource) rest(off int) io.Reader {
	pending := append([]byte(nil), s.buffered(off)...)
	if s.err != nil {
		return bytes.NewReader(pending)
	}
	return io.MultiReader(bytes.NewReader(pending), s.br)
}
