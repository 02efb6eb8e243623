package cursor

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"unsafe"

	"golang.org/x/text/language"

	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

func readN(t *testing.T, c *Cursor, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		b, err := c.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte #%d: %v", i, err)
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func rest(t *testing.T, c *Cursor) string {
	t.Helper()
	b, err := io.ReadAll(c.Reader())
	if err != nil {
		t.Fatalf("reading rest: %v", err)
	}
	return string(b)
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		c          *Cursor
		direct     bool
		contiguous bool
		sized      bool
		caching    bool
		reference  bool
	}{
		{"string", FromString("x"), true, true, true, false, false},
		{"bytes", FromBytes([]byte("x")), true, true, true, false, false},
		{"owned", FromOwnedBytes([]byte("x")), true, true, true, false, false},
		{"segments", FromSegments(Segments{[]byte("x")}), true, false, true, false, false},
		{"segments ref", FromSegmentsRef(Segments{[]byte("x")}), true, false, true, false, true},
		{"stream", FromReader(strings.NewReader("x"), 0), false, false, false, false, true},
		{"caching", FromCaching(strings.NewReader("x")), false, false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			if c.IsDirect() != tt.direct || c.IsContiguous() != tt.contiguous || c.IsSized() != tt.sized ||
				c.IsCaching() != tt.caching || c.IsReference() != tt.reference {
				t.Errorf("capabilities of %s = direct:%v contiguous:%v sized:%v caching:%v reference:%v",
					c.Kind(), c.IsDirect(), c.IsContiguous(), c.IsSized(), c.IsCaching(), c.IsReference())
			}
		})
	}
}

func TestResetRestoresPosition(t *testing.T) {
	cursors := map[string]func() *Cursor{
		"string":   func() *Cursor { return FromString("hello world") },
		"bytes":    func() *Cursor { return FromBytes([]byte("hello world")) },
		"segments": func() *Cursor { return FromSegmentsRef(Segments{[]byte("hel"), nil, []byte("lo wo"), []byte("rld")}) },
		"stream":   func() *Cursor { return FromReader(iotest.OneByteReader(strings.NewReader("hello world")), 16) },
		"caching":  func() *Cursor { return FromCaching(strings.NewReader("hello world")) },
	}

	for name, mk := range cursors {
		t.Run(name, func(t *testing.T) {
			c := mk()
			if got := readN(t, c, 6); got != "hello " {
				t.Fatalf("read %q", got)
			}
			c.SetRollbackPoint()
			start := c.Offset()

			readN(t, c, 3)
			if c.Read() != 3 {
				t.Errorf("Read() = %d, want 3", c.Read())
			}
			if err := c.ResetToRollbackPoint(); err != nil {
				t.Fatalf("ResetToRollbackPoint: %v", err)
			}
			if c.Offset() != start || c.Read() != 0 {
				t.Errorf("after reset offset=%d read=%d, want %d, 0", c.Offset(), c.Read(), start)
			}
			if got := rest(t, c); got != "world" {
				t.Errorf("rest = %q, want %q", got, "world")
			}
		})
	}
}

func TestStreamPutbackWindowExceeded(t *testing.T) {
	c := FromReader(iotest.OneByteReader(strings.NewReader("abcdefghijklmnop")), 4)
	c.SetRollbackPoint()

	readN(t, c, 10)
	err := c.ResetToRollbackPoint()
	if !errors.Is(err, types.ErrUnrecoverableSourceError) {
		t.Fatalf("expected unrecoverable_source_error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Putback failed") {
		t.Errorf("unexpected message: %v", err)
	}

	// Within the window the stream can step back
	c2 := FromReader(strings.NewReader("abcdef"), 4)
	c2.SetRollbackPoint()
	readN(t, c2, 3)
	if err := c2.ResetToRollbackPoint(); err != nil {
		t.Fatalf("reset within window: %v", err)
	}
	if got := rest(t, c2); got != "abcdef" {
		t.Errorf("rest = %q", got)
	}
}

func TestPutback(t *testing.T) {
	c := FromString("12345")
	readN(t, c, 4)
	if err := c.Putback(2); err != nil {
		t.Fatalf("Putback: %v", err)
	}
	if c.Offset() != 2 || c.Read() != 2 {
		t.Errorf("offset=%d read=%d, want 2, 2", c.Offset(), c.Read())
	}

	cc := FromCaching(strings.NewReader("abc"))
	readN(t, cc, 2)
	cc.SetRollbackPoint()
	readN(t, cc, 1)
	if err := cc.Putback(1); err != nil {
		t.Fatalf("caching Putback: %v", err)
	}
	if err := cc.Putback(1); !errors.Is(err, types.ErrUnrecoverableSourceError) {
		t.Errorf("putback before checkpoint: expected unrecoverable_source_error, got %v", err)
	}
}

func TestEndOfRange(t *testing.T) {
	for name, c := range map[string]*Cursor{
		"string": FromString(""),
		"stream": FromReader(strings.NewReader(""), 0),
	} {
		_, err := c.ReadByte()
		if !errors.Is(err, types.ErrEndOfRange) {
			t.Errorf("%s: expected end_of_range, got %v", name, err)
		}
		if !c.AtEnd() {
			t.Errorf("%s: AtEnd() = false", name)
		}
	}
}

func TestStreamReadError(t *testing.T) {
	c := FromReader(iotest.ErrReader(errors.New("disk on fire")), 0)
	_, err := c.ReadByte()
	if !errors.Is(err, types.ErrUnrecoverableSourceError) {
		t.Fatalf("expected unrecoverable_source_error, got %v", err)
	}
}

func TestDataIsZeroCopy(t *testing.T) {
	src := "foo bar"
	c := FromString(src)
	readN(t, c, 4)

	v, ok := c.Data()
	if !ok {
		t.Fatal("Data() not available for string source")
	}
	if v.String() != "bar" {
		t.Errorf("Data() = %q", v.String())
	}
	if unsafe.StringData(v.String()) != unsafe.StringData(src[4:]) {
		t.Error("Data() copied the string")
	}

	if _, ok := FromSegments(Segments{[]byte("x")}).Data(); ok {
		t.Error("segmented source must not expose contiguous data")
	}
}

func TestSizeAndAdvanceTo(t *testing.T) {
	c := FromSegmentsRef(Segments{[]byte("abc"), []byte("def")})
	if err := c.AdvanceTo(4); err != nil {
		t.Fatalf("AdvanceTo: %v", err)
	}
	if n, ok := c.Size(); !ok || n != 2 {
		t.Errorf("Size() = %d, %v; want 2, true", n, ok)
	}
	if c.Read() != 4 {
		t.Errorf("Read() = %d, want 4", c.Read())
	}

	s := FromReader(strings.NewReader("abc"), 0)
	if err := s.AdvanceTo(1); !errors.Is(err, types.ErrInvalidOperation) {
		t.Errorf("AdvanceTo on stream: expected invalid_operation, got %v", err)
	}
	if _, ok := s.Size(); ok {
		t.Error("stream must not report a size")
	}
}

func TestRewrapSameKindPreservesRemaining(t *testing.T) {
	cursors := []*Cursor{
		FromString("abcdef"),
		FromBytes([]byte("abcdef")),
		FromSegments(Segments{[]byte("ab"), []byte("cdef")}),
		FromReader(strings.NewReader("abcdef"), 0),
	}

	for _, c := range cursors {
		readN(t, c, 3)
		r, err := c.Rewrap(c.Kind())
		if err != nil {
			t.Fatalf("Rewrap(%s): %v", c.Kind(), err)
		}
		if r.Kind() != c.Kind() || r.Read() != 0 {
			t.Errorf("Rewrap(%s) kind=%s read=%d", c.Kind(), r.Kind(), r.Read())
		}
		if got := rest(t, r); got != "def" {
			t.Errorf("Rewrap(%s) rest = %q, want %q", c.Kind(), got, "def")
		}
	}
}

func TestRewrapOtherKind(t *testing.T) {
	segs := Segments{[]byte("ab"), []byte("cd")}
	c := FromSegmentsRef(segs)
	readN(t, c, 1)

	owned, err := c.Deref()
	if err != nil {
		t.Fatalf("Deref: %v", err)
	}
	if owned.Kind() != KindSegments {
		t.Fatalf("Deref kind = %s", owned.Kind())
	}
	segs[1][0] = 'X'
	if got := rest(t, owned); got != "bcd" {
		t.Errorf("owned copy changed with caller storage: %q", got)
	}

	str, err := FromBytes([]byte("hello")).Rewrap(KindString)
	if err != nil || rest(t, str) != "hello" {
		t.Errorf("Rewrap to string: %v", err)
	}

	_, err = FromReader(strings.NewReader("x"), 0).Rewrap(KindString)
	if !errors.Is(err, types.ErrInvalidOperation) {
		t.Errorf("rewrapping a stream to a string: expected invalid_operation, got %v", err)
	}
}

func TestCloneOwnedStorage(t *testing.T) {
	c := FromOwnedBytes([]byte("abc"))
	readN(t, c, 1)
	d := c.Clone()
	if d.Offset() != 1 {
		t.Errorf("clone offset = %d", d.Offset())
	}
	readN(t, d, 1)
	if c.Offset() != 1 {
		t.Error("advancing the clone moved the original")
	}
}

func TestReadRune(t *testing.T) {
	c := FromString("äx")
	r, n, err := c.ReadRune(locale.Classic())
	if err != nil || r != 'ä' || n != 2 {
		t.Fatalf("ReadRune = %q, %d, %v", r, n, err)
	}
	if c.Offset() != 2 {
		t.Errorf("offset = %d", c.Offset())
	}

	bad := FromString("\xff")
	_, _, err = bad.ReadRune(locale.New(language.English))
	if !errors.Is(err, types.ErrInvalidEncoding) {
		t.Errorf("expected invalid_encoding, got %v", err)
	}
	if bad.Offset() != 0 {
		t.Error("failed decode must not consume input")
	}
}

func TestCachingSyncReader(t *testing.T) {
	c := FromCaching(strings.NewReader("line one\nline two\n"))
	readN(t, c, 5)
	c.SetRollbackPoint()
	if got := rest(t, c); got != "one\nline two\n" {
		t.Errorf("rest = %q", got)
	}
}

var sink []byte

func TestStringViewBytesAliases(t *testing.T) {
	in := strings.Repeat("abc ", 1<<16)
	c := FromString(in)
	c.Advance(4)

	v, ok := c.Data()
	if !ok {
		t.Fatal("a string cursor must be contiguous")
	}
	if b := v.Bytes(); unsafe.SliceData(b) != unsafe.StringData(in[4:]) {
		t.Error("Bytes on a string view must alias the string")
	}
	if b := c.Buffered(); unsafe.SliceData(b) != unsafe.StringData(in[4:]) {
		t.Error("Buffered on a string cursor must alias the string")
	}

	allocs := testing.AllocsPerRun(100, func() {
		d, _ := c.Data()
		sink = d.Bytes()
	})
	if allocs != 0 {
		t.Errorf("Bytes on a string view allocated %v times", allocs)
	}
}
