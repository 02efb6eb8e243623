package cursor

import "sort"

// Segments is a non-contiguous container: the input is the concatenation
// of its segments.
type Segments [][]byte

// Len returns the total number of bytes across all segments
func (s Segments) Len() int {
	n := 0
	for _, seg := range s {
		n += len(seg)
	}
	return n
}

// String concatenates the segments
func (s Segments) String() string {
	buf := make([]byte, 0, s.Len())
	for _, seg := range s {
		buf = append(buf, seg...)
	}
	return string(buf)
}

// Clone deep-copies the segments
func (s Segments) Clone() Segments {
	out := make(Segments, 0, len(s))
	for _, seg := range s {
		if len(seg) > 0 {
			out = append(out, append([]byte(nil), seg...))
		}
	}
	return out
}

type segmentSource struct {
	segs  Segments
	start []int // start[i] is the offset of segs[i]
	total int
	k     Kind
}

func newSegmentSource(segs Segments, k Kind) *segmentSource {
	s := &segmentSource{segs: segs, start: make([]int, len(segs)), k: k}
	for i, seg := range segs {
		s.start[i] = s.total
		s.total += len(seg)
	}
	return s
}

func (s *segmentSource) kind() Kind  { return s.k }
func (s *segmentSource) length() int { return s.total }

// locate returns the segment holding off and the index inside it
func (s *segmentSource) locate(off int) (int, int) {
	i := sort.Search(len(s.start), func(i int) bool { return s.start[i] > off }) - 1
	// Empty segments share a start offset with their successor
	for i < len(s.segs)-1 && off-s.start[i] >= len(s.segs[i]) {
		i++
	}
	return i, off - s.start[i]
}

func (s *segmentSource) at(off int) (byte, error) {
	if off < 0 {
		return 0, errPutback()
	}
	if off >= s.total {
		return 0, errEOF
	}
	i, j := s.locate(off)
	return s.segs[i][j], nil
}

func (s *segmentSource) retains(off int) bool { return off >= 0 }

func (s *segmentSource) release(int) {}

func (s *segmentSource) clone() source {
	if s.k == KindSegments {
		return newSegmentSource(s.segs.Clone(), s.k)
	}
	return newSegmentSource(s.segs, s.k)
}

func (s *segmentSource) span(from, to int) []byte {
	out := make([]byte, 0, to-from)
	for _, seg := range s.remaining(from) {
		if len(out)+len(seg) > to-from {
			seg = seg[:to-from-len(out)]
		}
		out = append(out, seg...)
		if len(out) == to-from {
			break
		}
	}
	return out
}

// remaining returns the segments from off on, sharing memory with the source
func (s *segmentSource) remaining(off int) Segments {
	if off >= s.total {
		return Segments{}
	}
	i, j := s.locate(off)
	out := make(Segments, 0, len(s.segs)-i)
	out = append(out, s.segs[i][j:])
	for _, seg := range s.segs[i+1:] {
		if len(seg) > 0 {
			out = append(out, seg)
		}
	}
	return out
}
