// Package numeric converts text to numbers and classifies every failure as
// overflow, underflow, or an invalid value.
package numeric

import (
	"errors"
	"math"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

const (
	msgOverflow  = "Scanned number out of range: overflow"
	msgUnderflow = "Scanned number out of range: underflow"
)

// ParseInteger parses a base-N integer from the start of s. Only a leading
// '-' is accepted as sign; '+', whitespace, and base prefixes are rejected.
// A base of 0 means 10. The returned offset points one past the last digit.
//
// Out-of-range input saturates the way strtol does and is then classified:
// a value stuck at the maximum is an overflow, one stuck at the minimum (zero
// for unsigned types) an underflow.
func ParseInteger[T constraints.Integer](s []byte, base int) (T, int, error) {
	if base == 0 {
		base = 10
	}
	if base < 2 || base > 36 {
		return 0, 0, types.Errorf(types.InvalidOperation, "invalid integer base %d", base)
	}
	if len(s) == 0 {
		return 0, 0, types.NewError(types.InvalidScannedValue, "Expected integer, got empty input")
	}

	pos := 0
	neg := false
	if s[0] == '-' {
		neg = true
		pos++
	}

	start := pos
	var mag uint64
	wrapped := false
	for pos < len(s) {
		d := digitVal(s[pos])
		if d >= base {
			break
		}
		if !wrapped {
			next := mag*uint64(base) + uint64(d)
			if mag > (math.MaxUint64-uint64(d))/uint64(base) {
				wrapped = true
			} else {
				mag = next
			}
		}
		pos++
	}
	if pos == start {
		return 0, 0, types.NewError(types.InvalidScannedValue, "Expected integer, no digits found")
	}

	v, saturated := fromMagnitude[T](mag, neg, wrapped)
	if saturated {
		return v, pos, checkIntRange(v)
	}
	return v, pos, nil
}

// fromMagnitude converts a sign and magnitude into T, saturating on overflow
func fromMagnitude[T constraints.Integer](mag uint64, neg, wrapped bool) (T, bool) {
	bits := uint(unsafe.Sizeof(T(0)) * 8)
	if isSigned[T]() {
		limit := uint64(1) << (bits - 1) // |min|
		if neg {
			if wrapped || mag > limit {
				return minOf[T](), true
			}
			return T(-int64(mag)), false
		}
		if wrapped || mag > limit-1 {
			return maxOf[T](), true
		}
		return T(mag), false
	}

	if neg {
		if wrapped || mag != 0 {
			return 0, true
		}
		return 0, false
	}
	if wrapped || (bits < 64 && mag > (uint64(1)<<bits)-1) {
		return maxOf[T](), true
	}
	return T(mag), false
}

// checkIntRange classifies a failed integer conversion by its saturated value
func checkIntRange[T constraints.Integer](v T) error {
	if v == maxOf[T]() {
		return types.NewError(types.ValueOutOfRange, msgOverflow)
	}
	if v == minOf[T]() {
		return types.NewError(types.ValueOutOfRange, msgUnderflow)
	}
	return types.NewError(types.InvalidScannedValue, "Invalid integer value")
}

// ParseFloat parses a decimal floating-point number, "inf", "infinity", or
// "nan" from the start of s. Sign rules match ParseInteger.
func ParseFloat[T constraints.Float](s []byte) (T, int, error) {
	if len(s) == 0 {
		return 0, 0, types.NewError(types.InvalidScannedValue, "Expected floating-point value, got empty input")
	}

	n, nonzero := floatPrefix(s)
	if n == 0 {
		return 0, 0, types.NewError(types.InvalidScannedValue, "Expected floating-point value, no digits found")
	}

	bits := int(unsafe.Sizeof(T(0)) * 8)
	f, err := strconv.ParseFloat(string(s[:n]), bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
			v := T(math.Copysign(maxFloat(bits), f))
			return v, n, checkFloatRange(v, bits)
		}
		if !errors.Is(err, strconv.ErrRange) {
			return 0, 0, types.NewError(types.InvalidScannedValue, "Invalid floating-point value")
		}
	}
	if f == 0 && nonzero {
		return 0, n, checkFloatRange(T(0), bits)
	}
	return T(f), n, nil
}

// checkFloatRange classifies a failed float conversion by its saturated value
func checkFloatRange[T constraints.Float](v T, bits int) error {
	max := maxFloat(bits)
	if float64(v) == max || float64(v) == -max {
		return types.NewError(types.ValueOutOfRange, msgOverflow)
	}
	if v == 0 {
		return types.NewError(types.ValueOutOfRange, msgUnderflow)
	}
	return types.NewError(types.InvalidScannedValue, "Invalid floating-point value")
}

// floatPrefix returns the length of the longest float literal at the start
// of s and whether its mantissa contains a nonzero digit.
func floatPrefix(s []byte) (int, bool) {
	pos := 0
	if s[0] == '-' {
		pos++
	}

	for _, word := range []string{"infinity", "inf", "nan"} {
		if hasPrefixFold(s[pos:], word) {
			return pos + len(word), true
		}
	}

	digits := 0
	nonzero := false
	for pos < len(s) && isDigit(s[pos]) {
		nonzero = nonzero || s[pos] != '0'
		pos++
		digits++
	}
	if pos < len(s) && s[pos] == '.' {
		frac := pos + 1
		for frac < len(s) && isDigit(s[frac]) {
			nonzero = nonzero || s[frac] != '0'
			frac++
			digits++
		}
		if digits > 0 {
			pos = frac
		}
	}
	if digits == 0 {
		return 0, false
	}

	// An exponent only counts when at least one digit follows it
	if pos < len(s) && (s[pos] == 'e' || s[pos] == 'E') {
		exp := pos + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			pos = exp
		}
	}
	return pos, nonzero
}

func hasPrefixFold(s []byte, word string) bool {
	if len(s) < len(word) {
		return false
	}
	for i := 0; i < len(word); i++ {
		if s[i]|0x20 != word[i] {
			return false
		}
	}
	return true
}

func isSigned[T constraints.Integer]() bool {
	var zero T
	return zero-1 < zero
}

func maxOf[T constraints.Integer]() T {
	if isSigned[T]() {
		bits := uint(unsafe.Sizeof(T(0)) * 8)
		return T(uint64(1)<<(bits-1) - 1)
	}
	var zero T
	return ^zero
}

func minOf[T constraints.Integer]() T {
	if isSigned[T]() {
		return -maxOf[T]() - 1
	}
	return 0
}

func maxFloat(bits int) float64 {
	if bits == 32 {
		return math.MaxFloat32
	}
	return math.MaxFloat64
}

func digitVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	}
	return 36
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
