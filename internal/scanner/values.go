package scanner

import (
	"golang.org/x/exp/constraints"

	"github.com/cybertec-postgresql/pgscan/internal/cursor"
	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/internal/numeric"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// SkipSpace consumes whitespace as classified by the facet. Reaching the end
// of input is not an error here; the next read reports it. The classic facet
// classifies single bytes; any other facet decodes code points and fails with
// invalid_encoding on input it cannot decode.
func SkipSpace(ctx *Context, c *cursor.Cursor) error {
	for {
		n, err := spaceLen(ctx.Facet, c)
		if err != nil {
			if isKind(err, types.EndOfRange) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
		c.Advance(n)
	}
}

// spaceLen returns the length of the whitespace unit at the cursor, or 0 when
// the next unit is not whitespace
func spaceLen(f *locale.Facet, c *cursor.Cursor) (int, error) {
	if f.IsClassic() {
		b, err := c.Peek()
		if err != nil {
			return 0, err
		}
		if f.IsByte(locale.Space, b) {
			return 1, nil
		}
		return 0, nil
	}
	r, n, err := c.PeekRune(f)
	if err != nil {
		return 0, err
	}
	if f.Is(locale.Space, r) {
		return n, nil
	}
	return 0, nil
}

// Word consumes the run of non-whitespace units at the cursor. Contiguous
// sources return a view into the input, others a copy. Under a non-classic
// facet every unit of the word must decode.
func Word(ctx *Context, c *cursor.Cursor) ([]byte, error) {
	f := ctx.Facet
	if v, ok := c.Data(); ok {
		b := v.Bytes()
		n := 0
		for n < len(b) {
			size := 1
			if f.IsClassic() {
				if f.IsByte(locale.Space, b[n]) {
					break
				}
			} else {
				space, un, err := f.IsUnit(locale.Space, b[n:])
				if err != nil {
					return nil, err
				}
				if space {
					break
				}
				size = un
			}
			n += size
		}
		if n == 0 {
			return nil, wordError(len(b) == 0)
		}
		c.Advance(n)
		return b[:n:n], nil
	}

	var word []byte
	for {
		n, err := wordUnit(f, c)
		if err != nil {
			if isKind(err, types.EndOfRange) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
		p, err := c.PeekN(n)
		if err != nil {
			return nil, err
		}
		word = append(word, p...)
		c.Advance(n)
	}
	if len(word) == 0 {
		return nil, wordError(c.AtEnd())
	}
	return word, nil
}

// wordUnit returns the length of the non-whitespace unit at the cursor, or 0
// at whitespace
func wordUnit(f *locale.Facet, c *cursor.Cursor) (int, error) {
	if f.IsClassic() {
		b, err := c.Peek()
		if err != nil {
			return 0, err
		}
		if f.IsByte(locale.Space, b) {
			return 0, nil
		}
		return 1, nil
	}
	r, n, err := c.PeekRune(f)
	if err != nil {
		return 0, err
	}
	if f.Is(locale.Space, r) {
		return 0, nil
	}
	return n, nil
}

func wordError(atEnd bool) error {
	if atEnd {
		return types.NewError(types.EndOfRange, "")
	}
	return types.NewError(types.InvalidScannedValue, "Expected a word, got whitespace")
}

// readNumberWord skips whitespace and returns the candidate characters of a
// number. The caller puts back whatever the conversion did not use.
func readNumberWord(ctx *Context, c *cursor.Cursor) ([]byte, error) {
	if err := SkipSpace(ctx, c); err != nil {
		return nil, err
	}
	return Word(ctx, c)
}

func scanInt[T constraints.Integer](ctx *Context, c *cursor.Cursor, p *T) error {
	word, err := readNumberWord(ctx, c)
	if err != nil {
		return err
	}

	v, n, err := ParseInteger[T](ctx, word)
	if err != nil {
		return err
	}
	if err := c.Putback(len(word) - n); err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseInteger converts the start of word following the context's spec:
// its base, prefix detection for base 0, and the localized flag.
func ParseInteger[T constraints.Integer](ctx *Context, word []byte) (T, int, error) {
	base := ctx.Spec.Base
	digits := word
	prefix := 0
	if base == 0 || base == 16 || base == 8 || base == 2 {
		base, prefix = detectBase(word, base)
		if prefix > 0 {
			// Keep the sign, drop the base prefix
			digits = make([]byte, 0, len(word)-prefix)
			if word[0] == '-' {
				digits = append(digits, '-')
				digits = append(digits, word[prefix+1:]...)
			} else {
				digits = append(digits, word[prefix:]...)
			}
		}
	}

	var (
		v   T
		n   int
		err error
	)
	if ctx.Spec.Localized {
		v, n, err = numeric.ReadInteger[T](ctx.Conv, digits, base)
	} else {
		v, n, err = numeric.ParseInteger[T](digits, base)
	}
	if err != nil {
		return v, 0, err
	}
	return v, n + prefix, nil
}

// detectBase recognizes a 0x, 0o, or 0b prefix after an optional '-'.
// With base 0 a bare leading zero selects octal. The prefix length is
// returned without the sign.
func detectBase(word []byte, base int) (int, int) {
	i := 0
	if len(word) > 0 && word[0] == '-' {
		i = 1
	}
	if len(word) < i+2 || word[i] != '0' {
		if base == 0 {
			return 10, 0
		}
		return base, 0
	}

	// A prefix only counts when a digit of its base follows
	next := func(ok func(byte) bool) bool { return len(word) > i+2 && ok(word[i+2]) }
	switch word[i+1] | 0x20 {
	case 'x':
		if (base == 0 || base == 16) && next(isHex) {
			return 16, 2
		}
	case 'o':
		if (base == 0 || base == 8) && next(isOct) {
			return 8, 2
		}
	case 'b':
		if (base == 0 || base == 2) && next(isBin) {
			return 2, 2
		}
	}
	if base == 0 {
		if isOct(word[i+1]) {
			return 8, 1
		}
		return 10, 0
	}
	return base, 0
}

func scanFloat[T constraints.Float](ctx *Context, c *cursor.Cursor, p *T) error {
	word, err := readNumberWord(ctx, c)
	if err != nil {
		return err
	}

	var (
		v T
		n int
	)
	if ctx.Spec.Localized {
		v, n, err = numeric.ReadFloat[T](ctx.Conv, word)
	} else {
		v, n, err = numeric.ParseFloat[T](word)
	}
	if err != nil {
		return err
	}
	if err := c.Putback(len(word) - n); err != nil {
		return err
	}
	*p = v
	return nil
}

// scanBool accepts the facet's boolean names, then 1 and 0
func scanBool(ctx *Context, c *cursor.Cursor, p *bool) error {
	word, err := readNumberWord(ctx, c)
	if err != nil {
		return err
	}

	var v bool
	n := 0
	switch {
	case hasPrefix(word, ctx.Facet.TrueName()):
		v, n = true, len(ctx.Facet.TrueName())
	case hasPrefix(word, ctx.Facet.FalseName()):
		v, n = false, len(ctx.Facet.FalseName())
	case word[0] == '1':
		v, n = true, 1
	case word[0] == '0':
		v, n = false, 1
	default:
		return types.NewError(types.InvalidScannedValue, "Expected a boolean value")
	}
	if err := c.Putback(len(word) - n); err != nil {
		return err
	}
	*p = v
	return nil
}

func scanString(ctx *Context, c *cursor.Cursor, p *string) error {
	if err := SkipSpace(ctx, c); err != nil {
		return err
	}
	word, err := Word(ctx, c)
	if err != nil {
		return err
	}
	*p = string(word)
	return nil
}

func scanBytes(ctx *Context, c *cursor.Cursor, p *[]byte) error {
	if err := SkipSpace(ctx, c); err != nil {
		return err
	}
	word, err := Word(ctx, c)
	if err != nil {
		return err
	}
	*p = append((*p)[:0], word...)
	return nil
}

// scanView binds a word without copying; only contiguous input can do that
func scanView(ctx *Context, c *cursor.Cursor, p *cursor.View) error {
	if !c.IsContiguous() {
		return types.Errorf(types.InvalidOperation, "cannot take a view of a %s source", c.Kind())
	}
	if err := SkipSpace(ctx, c); err != nil {
		return err
	}
	start := c.Offset()
	if _, err := Word(ctx, c); err != nil {
		return err
	}
	v, _ := c.Slice(start, c.Offset())
	*p = v
	return nil
}

func scanChar(ctx *Context, c *cursor.Cursor, p *Char) error {
	r, _, err := c.ReadRune(ctx.Facet)
	if err != nil {
		return err
	}
	*p = Char(r)
	return nil
}

func hasPrefix(b []byte, prefix string) bool {
	return prefix != "" && len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

func isKind(err error, kind types.ErrorKind) bool {
	return types.AsError(err).Kind == kind
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b|0x20 >= 'a' && b|0x20 <= 'f')
}
func isOct(b byte) bool { return b >= '0' && b <= '7' }
func isBin(b byte) bool { return b == '0' || b == '1' }
