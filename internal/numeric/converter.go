package numeric

import (
	"errors"
	"unicode"

	"golang.org/x/exp/constraints"

	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

const msgLocalizedFailed = "Localized number read failed"

// Converter reads numbers written with a locale's punctuation.
//
// Recoverable mirrors whether the host build supports recoverable conversion
// failures. Without it the localized path is unavailable and every call
// fails with feature_unavailable instead of guessing.
type Converter struct {
	Facet       *locale.Facet
	Recoverable bool
}

// NewConverter creates a converter for f using the build's default
// recoverability
func NewConverter(f *locale.Facet) *Converter {
	if f == nil {
		f = locale.Default()
	}
	return &Converter{Facet: f, Recoverable: hostRecoverable}
}

func (c *Converter) available() error {
	if !c.Recoverable {
		return types.NewError(types.FeatureUnavailable,
			"Localized number reading is only supported with recoverable failures enabled")
	}
	return nil
}

// ReadInteger reads a localized integer from the start of s and returns the
// number of input bytes consumed
func ReadInteger[T constraints.Integer](c *Converter, s []byte, base int) (T, int, error) {
	if err := c.available(); err != nil {
		return 0, 0, err
	}
	buf, offs, err := c.normalize(s, false)
	if err != nil {
		return 0, 0, err
	}
	v, n, err := ParseInteger[T](buf, base)
	if err != nil {
		return v, 0, localizedError(err)
	}
	return v, offs[n], nil
}

// ReadFloat reads a localized floating-point number from the start of s and
// returns the number of input bytes consumed
func ReadFloat[T constraints.Float](c *Converter, s []byte) (T, int, error) {
	if err := c.available(); err != nil {
		return 0, 0, err
	}
	buf, offs, err := c.normalize(s, true)
	if err != nil {
		return 0, 0, err
	}
	v, n, err := ParseFloat[T](buf)
	if err != nil {
		return v, 0, localizedError(err)
	}
	return v, offs[n], nil
}

// normalize rewrites the numeric prefix of s into the C locale: grouping
// separators between digits are dropped, the facet's decimal point becomes
// '.', and non-ASCII decimal digits become ASCII. offs[i] is the input offset
// of normalized byte i; offs[len(buf)] is the end of the converted prefix.
func (c *Converter) normalize(s []byte, float bool) ([]byte, []int, error) {
	f := c.Facet
	buf := make([]byte, 0, len(s))
	offs := make([]int, 0, len(s)+1)

	pos := 0
	prevDigit := false
	for pos < len(s) {
		r, n, err := f.DecodeRune(s[pos:])
		if err != nil {
			if pos == 0 {
				return nil, nil, err
			}
			break
		}

		switch {
		case r < 0x80 && (isDigit(byte(r)) || isNumberLetter(byte(r))):
			buf = append(buf, byte(r))
			offs = append(offs, pos)
			prevDigit = isDigit(byte(r))
		case unicode.IsDigit(r):
			buf = append(buf, byte('0'+digitValue(r)))
			offs = append(offs, pos)
			prevDigit = true
		case r == f.ThousandsSep() && r != 0 && prevDigit && c.digitFollows(s[pos+n:]):
			prevDigit = false
		case float && r == f.DecimalPoint():
			buf = append(buf, '.')
			offs = append(offs, pos)
			prevDigit = false
		case r == '-' || (float && r == '+'):
			buf = append(buf, byte(r))
			offs = append(offs, pos)
			prevDigit = false
		default:
			offs = append(offs, pos)
			return buf, offs, nil
		}
		pos += n
	}
	offs = append(offs, pos)
	return buf, offs, nil
}

func (c *Converter) digitFollows(s []byte) bool {
	r, _, err := c.Facet.DecodeRune(s)
	return err == nil && unicode.IsDigit(r)
}

// localizedError keeps range classifications and reports everything else
// as a failed localized read
func localizedError(err error) error {
	var e types.Error
	if errors.As(err, &e) && e.Kind == types.ValueOutOfRange {
		return e
	}
	if errors.As(err, &e) && e.Kind == types.InvalidOperation {
		return e
	}
	return types.NewError(types.InvalidScannedValue, msgLocalizedFailed)
}

// digitValue returns the numeric value of a Unicode decimal digit.
// Nd code points come in contiguous runs of whole 0-9 sequences.
func digitValue(r rune) int {
	zero := r
	for unicode.IsDigit(zero - 1) {
		zero--
	}
	return int(r-zero) % 10
}

// isNumberLetter accepts the ASCII letters that can appear in a number:
// digits above 9 and the exponent, infinity, and NaN spellings
func isNumberLetter(b byte) bool {
	b |= 0x20
	return b >= 'a' && b <= 'z'
}
