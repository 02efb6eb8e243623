package reconstruct

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		conv Convention
		ref  bool
		want Case
	}{
		{Wrapped, false, PassThrough},
		{Wrapped, true, PassThrough},
		{Literal, false, LiteralView},
		{Literal, true, LiteralView},
		{ByReference, false, ReuseContainer},
		{ByReference, true, DerefReference},
		{ByValue, false, MaterializeValue},
		{ByValue, true, DerefValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.conv, tt.ref), "Classify(%s, %v)", tt.conv, tt.ref)
	}
}

// consume advances the input's cursor by n bytes
func consume(t *testing.T, in *Input, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := in.Cursor().ReadByte()
		require.NoError(t, err)
	}
}

func TestWrappedPassThrough(t *testing.T) {
	c := cursor.FromString("abc def")
	in, err := Wrap(c, 0)
	require.NoError(t, err)
	consume(t, in, 4)

	r := Finish(in, nil, 1)
	assert.True(t, r.OK())
	assert.Equal(t, PassThrough, r.Case())
	assert.Same(t, c, r.Range())
	assert.Same(t, c, r.Reconstruct())
	assert.Equal(t, "def", r.String())
}

func TestLiteralView(t *testing.T) {
	src := "123 rest"
	in, err := Wrap(src, 0)
	require.NoError(t, err)
	assert.Equal(t, Literal, in.Convention())
	consume(t, in, 4)

	r := Finish(in, nil, 1)
	assert.Equal(t, LiteralView, r.Case())
	assert.True(t, r.Reconstructed())

	left, ok := As[string](r)
	require.True(t, ok)
	assert.Equal(t, "rest", left)
	assert.Equal(t, unsafe.StringData(src[4:]), unsafe.StringData(left), "leftover must share the literal's memory")
}

func TestReferenceReusesContainer(t *testing.T) {
	buf := []byte("12 34")
	in, err := Wrap(&buf, 0)
	require.NoError(t, err)
	consume(t, in, 3)

	r := Finish(in, nil, 1)
	assert.Equal(t, ReuseContainer, r.Case())
	assert.False(t, r.Reconstructed())

	left, ok := As[[]byte](r)
	require.True(t, ok)
	assert.Equal(t, "34", string(left))
	assert.Same(t, &buf[3], &left[0], "leftover must re-slice the caller's buffer")

	s := "ab cd"
	in, err = Wrap(&s, 0)
	require.NoError(t, err)
	consume(t, in, 3)

	r = Finish(in, nil, 0)
	assert.Equal(t, "cd", r.Reconstruct())
	assert.Equal(t, "cd", r.String())
	require.NotNil(t, r.Range())
	assert.Equal(t, 2, mustSize(t, r.Range()))
}

func mustSize(t *testing.T, c *cursor.Cursor) int {
	t.Helper()
	n, ok := c.Size()
	require.True(t, ok, "cursor is not sized")
	return n
}

func TestValueMaterializes(t *testing.T) {
	buf := []byte("12 34")
	in, err := Wrap(buf, 0)
	require.NoError(t, err)
	consume(t, in, 3)

	r := Finish(in, nil, 1)
	assert.Equal(t, MaterializeValue, r.Case())
	assert.Equal(t, cursor.KindOwnedBytes, r.Range().Kind())

	left, ok := As[[]byte](r)
	require.True(t, ok)
	assert.Equal(t, "34", string(left))

	buf[3] = 'X'
	assert.Equal(t, "34", string(left), "materialized leftover must not alias the input")
}

func TestSegmentsDeref(t *testing.T) {
	segs := cursor.Segments{[]byte("ab"), []byte("cd")}

	t.Run("by value", func(t *testing.T) {
		in, err := Wrap(segs, 0)
		require.NoError(t, err)
		assert.True(t, in.Cursor().IsReference())
		consume(t, in, 1)

		r := Finish(in, nil, 0)
		assert.Equal(t, DerefValue, r.Case())
		assert.Equal(t, cursor.KindSegments, r.Range().Kind())

		left, ok := As[cursor.Segments](r)
		require.True(t, ok)
		assert.Equal(t, "bcd", left.String())
	})

	t.Run("by reference", func(t *testing.T) {
		in, err := Wrap(&segs, 0)
		require.NoError(t, err)
		consume(t, in, 3)

		r := Finish(in, nil, 0)
		assert.Equal(t, DerefReference, r.Case())
		assert.Equal(t, "d", r.String())
	})
}

func TestReaderDeref(t *testing.T) {
	in, err := Wrap(strings.NewReader("42 tail"), 0)
	require.NoError(t, err)
	assert.Equal(t, ByReference, in.Convention())
	consume(t, in, 3)

	r := Finish(in, nil, 1)
	assert.Equal(t, DerefReference, r.Case())

	rd, ok := As[io.Reader](r)
	require.True(t, ok)
	var out bytes.Buffer
	_, err = out.ReadFrom(rd)
	require.NoError(t, err)
	assert.Equal(t, "tail", out.String())
}

func TestWrapRejectsUnknownInput(t *testing.T) {
	for _, in := range []any{42, nil, (*string)(nil), (*cursor.Cursor)(nil)} {
		_, err := Wrap(in, 0)
		assert.True(t, errors.Is(err, types.ErrInvalidOperation), "Wrap(%T): %v", in, err)
	}

	r := Failed(types.NewError(types.InvalidOperation, "bad input"))
	assert.False(t, r.OK())
	assert.Nil(t, r.Range())
	assert.Nil(t, r.Reconstruct())
}

func TestFinishCarriesError(t *testing.T) {
	in, err := Wrap("abc", 0)
	require.NoError(t, err)

	r := Finish(in, types.NewError(types.InvalidScannedValue, "Expected integer"), 0)
	assert.False(t, r.OK())
	assert.ErrorIs(t, r.Err(), types.ErrInvalidScannedValue)
	assert.Equal(t, types.InvalidScannedValue, r.Error().Kind)
	assert.Equal(t, "abc", r.String())
}
