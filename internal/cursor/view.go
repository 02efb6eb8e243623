package cursor

import "unsafe"

// View is a read-only window into contiguous input. A View taken from a
// string or byte slice shares memory with it; nothing is copied until
// String or Bytes has to change representation.
type View struct {
	s   string
	b   []byte
	str bool
}

// Len returns the number of bytes in the view
func (v View) Len() int {
	if v.str {
		return len(v.s)
	}
	return len(v.b)
}

// String returns the view as a string. Views over strings do not copy.
func (v View) String() string {
	if v.str {
		return v.s
	}
	return string(v.b)
}

// Bytes returns the view as a byte slice without copying. A view over a
// string aliases the string's memory, so the caller must not modify the
// result.
func (v View) Bytes() []byte {
	if v.str {
		return unsafe.Slice(unsafe.StringData(v.s), len(v.s))
	}
	return v.b
}

// IsString reports whether the view aliases a string
func (v View) IsString() bool { return v.str }

// Slice returns the sub-view [from, to)
func (v View) Slice(from, to int) View {
	if v.str {
		return View{s: v.s[from:to], str: true}
	}
	return View{b: v.b[from:to:to]}
}

// viewSource backs the string, byte, and owned byte kinds
type viewSource struct {
	s   string
	b   []byte
	str bool
	k   Kind
}

func (s *viewSource) kind() Kind { return s.k }

func (s *viewSource) length() int {
	if s.str {
		return len(s.s)
	}
	return len(s.b)
}

func (s *viewSource) at(off int) (byte, error) {
	if off < 0 {
		return 0, errPutback()
	}
	if off >= s.length() {
		return 0, errEOF
	}
	if s.str {
		return s.s[off], nil
	}
	return s.b[off], nil
}

func (s *viewSource) retains(off int) bool { return off >= 0 }

func (s *viewSource) release(int) {}

func (s *viewSource) clone() source {
	if s.k == KindOwnedBytes {
		return &viewSource{b: append([]byte(nil), s.b...), k: s.k}
	}
	c := *s
	return &c
}

func (s *viewSource) view(from, to int) View {
	if s.str {
		return View{s: s.s[from:to], str: true}
	}
	return View{b: s.b[from:to:to]}
}

func (s *viewSource) span(from, to int) []byte {
	if s.str {
		return []byte(s.s[from:to])
	}
	return append([]byte(nil), s.b[from:to]...)
}

func (s *viewSource) buffered(off int) []byte {
	if off >= s.length() {
		return nil
	}
	return s.view(off, s.length()).Bytes()
}
