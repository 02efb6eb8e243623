package locale

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Class is a character classification predicate
type Class int

const (
	Space Class = iota
	Digit
	Alpha
	Alnum
	Punct
	Cntrl
	Graph
	Print
	Upper
	Lower
	Blank
	XDigit
)

var classNames = [...]string{
	Space: "space", Digit: "digit", Alpha: "alpha", Alnum: "alnum",
	Punct: "punct", Cntrl: "cntrl", Graph: "graph", Print: "print",
	Upper: "upper", Lower: "lower", Blank: "blank", XDigit: "xdigit",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// longest sequence tried when decoding a non-UTF-8 unit
const maxMultiByte = 4

// Is reports whether code point r belongs to class c
func (f *Facet) Is(c Class, r rune) bool {
	if f.ascii {
		return r < utf8.RuneSelf && isASCII(c, byte(r))
	}
	switch c {
	case Space:
		return unicode.IsSpace(r)
	case Digit:
		return unicode.IsDigit(r)
	case Alpha:
		return unicode.IsLetter(r)
	case Alnum:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	case Punct:
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	case Cntrl:
		return unicode.IsControl(r)
	case Graph:
		return unicode.IsGraphic(r) && !unicode.IsSpace(r)
	case Print:
		return unicode.IsPrint(r)
	case Upper:
		return unicode.IsUpper(r)
	case Lower:
		return unicode.IsLower(r)
	case Blank:
		return r == '\t' || unicode.Is(unicode.Zs, r)
	case XDigit:
		return r < utf8.RuneSelf && isASCII(XDigit, byte(r))
	}
	return false
}

// IsByte classifies a single-byte unit. For multi-byte encodings only the
// ASCII range is meaningful; use IsUnit for everything else.
func (f *Facet) IsByte(c Class, b byte) bool {
	if b < utf8.RuneSelf {
		return isASCII(c, b)
	}
	if cm, ok := f.enc.(*charmap.Charmap); ok {
		return f.Is(c, cm.DecodeByte(b))
	}
	return false
}

// IsUnit decodes the first code point of p and classifies it. The number of
// bytes the code point occupies is returned alongside the result.
func (f *Facet) IsUnit(c Class, p []byte) (bool, int, error) {
	r, n, err := f.DecodeRune(p)
	if err != nil {
		return false, 0, err
	}
	return f.Is(c, r), n, nil
}

// DecodeRune decodes one code point from the start of p using the facet's
// encoding. Invalid or truncated input yields an invalid_encoding error.
func (f *Facet) DecodeRune(p []byte) (rune, int, error) {
	if len(p) == 0 {
		return 0, 0, types.NewError(types.EndOfRange, "no input to decode")
	}
	if f.enc == nil {
		r, n := utf8.DecodeRune(p)
		if r == utf8.RuneError && n <= 1 {
			return 0, 0, types.NewError(types.InvalidEncoding, "invalid UTF-8 sequence")
		}
		return r, n, nil
	}
	if cm, ok := f.enc.(*charmap.Charmap); ok {
		r := cm.DecodeByte(p[0])
		if r == utf8.RuneError {
			return 0, 0, types.NewError(types.InvalidEncoding, "byte has no mapping in "+cm.String())
		}
		return r, 1, nil
	}

	// Grow the candidate one byte at a time until it decodes to exactly one
	// code point. A truncated prefix decodes to U+FFFD.
	dec := f.enc.NewDecoder()
	for n := 1; n <= maxMultiByte && n <= len(p); n++ {
		out, err := dec.Bytes(p[:n])
		dec.Reset()
		if err != nil || len(out) == 0 {
			continue
		}
		r, size := utf8.DecodeRune(out)
		if r != utf8.RuneError && size == len(out) {
			return r, n, nil
		}
	}
	return 0, 0, types.NewError(types.InvalidEncoding, "failed to convert unit to a code point")
}

// UnitLen returns the byte length of the code point starting with lead.
// It is exact for UTF-8 and single-byte encodings and returns 0 when the
// length cannot be known without decoding.
func (f *Facet) UnitLen(lead byte) int {
	if f.enc == nil {
		switch {
		case lead < 0x80:
			return 1
		case lead&0xE0 == 0xC0:
			return 2
		case lead&0xF0 == 0xE0:
			return 3
		case lead&0xF8 == 0xF0:
			return 4
		}
		return 0
	}
	if _, ok := f.enc.(*charmap.Charmap); ok {
		return 1
	}
	return 0
}

func isASCII(c Class, b byte) bool {
	switch c {
	case Space:
		return b == ' ' || (b >= '\t' && b <= '\r')
	case Digit:
		return b >= '0' && b <= '9'
	case Alpha:
		return isUpper(b) || isLower(b)
	case Alnum:
		return isUpper(b) || isLower(b) || (b >= '0' && b <= '9')
	case Punct:
		return b > ' ' && b < 0x7f && !(isUpper(b) || isLower(b) || (b >= '0' && b <= '9'))
	case Cntrl:
		return b < ' ' || b == 0x7f
	case Graph:
		return b > ' ' && b < 0x7f
	case Print:
		return b >= ' ' && b < 0x7f
	case Upper:
		return isUpper(b)
	case Lower:
		return isLower(b)
	case Blank:
		return b == ' ' || b == '\t'
	case XDigit:
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	}
	return false
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
