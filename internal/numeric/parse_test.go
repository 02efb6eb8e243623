package numeric

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

func assertKind(t *testing.T, err error, kind types.ErrorKind) {
	t.Helper()
	var e types.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
	if e.Kind != kind {
		t.Fatalf("expected %s, got %s (%q)", kind, e.Kind, e.Message)
	}
}

func TestParseIntegerInt32(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int32
		wantPos int
		kind    types.ErrorKind
		msg     string
	}{
		{name: "simple", input: "123", want: 123, wantPos: 3},
		{name: "negative", input: "-42 rest", want: -42, wantPos: 3},
		{name: "max", input: "2147483647", want: math.MaxInt32, wantPos: 10},
		{name: "min", input: "-2147483648", want: math.MinInt32, wantPos: 11},
		{name: "overflow", input: "2147483648", want: math.MaxInt32, wantPos: 10, kind: types.ValueOutOfRange, msg: "overflow"},
		{name: "underflow", input: "-2147483649", want: math.MinInt32, wantPos: 11, kind: types.ValueOutOfRange, msg: "underflow"},
		{name: "huge", input: "99999999999999999999999", want: math.MaxInt32, wantPos: 23, kind: types.ValueOutOfRange, msg: "overflow"},
		{name: "stops at non-digit", input: "12ab", want: 12, wantPos: 2},
		{name: "plus rejected", input: "+5", kind: types.InvalidScannedValue},
		{name: "leading space rejected", input: " 5", kind: types.InvalidScannedValue},
		{name: "letters", input: "abc", kind: types.InvalidScannedValue},
		{name: "lone minus", input: "-", kind: types.InvalidScannedValue},
		{name: "empty", input: "", kind: types.InvalidScannedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos, err := ParseInteger[int32]([]byte(tt.input), 10)
			if tt.kind != types.Good {
				assertKind(t, err, tt.kind)
				if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
					t.Errorf("error %q does not mention %q", err, tt.msg)
				}
				if tt.kind == types.ValueOutOfRange && got != tt.want {
					t.Errorf("saturated value = %d, want %d", got, tt.want)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || pos != tt.wantPos {
				t.Errorf("ParseInteger(%q) = %d, %d; want %d, %d", tt.input, got, pos, tt.want, tt.wantPos)
			}
		})
	}
}

func TestParseIntegerUnsigned(t *testing.T) {
	v, _, err := ParseInteger[uint8]([]byte("255"), 10)
	if err != nil || v != 255 {
		t.Fatalf("uint8 max: %d, %v", v, err)
	}

	_, _, err = ParseInteger[uint8]([]byte("256"), 10)
	assertKind(t, err, types.ValueOutOfRange)

	_, _, err = ParseInteger[uint16]([]byte("-1"), 10)
	assertKind(t, err, types.ValueOutOfRange)
	if !strings.Contains(err.Error(), "underflow") {
		t.Errorf("expected underflow, got %v", err)
	}

	v64, _, err := ParseInteger[uint64]([]byte("18446744073709551615"), 10)
	if err != nil || v64 != math.MaxUint64 {
		t.Fatalf("uint64 max: %d, %v", v64, err)
	}
	_, _, err = ParseInteger[uint64]([]byte("18446744073709551616"), 10)
	assertKind(t, err, types.ValueOutOfRange)

	zero, _, err := ParseInteger[uint]([]byte("-0"), 10)
	if err != nil || zero != 0 {
		t.Errorf("-0 as unsigned: %d, %v", zero, err)
	}
}

func TestParseIntegerInt64Bounds(t *testing.T) {
	v, _, err := ParseInteger[int64]([]byte("-9223372036854775808"), 10)
	if err != nil || v != math.MinInt64 {
		t.Fatalf("int64 min: %d, %v", v, err)
	}
	_, _, err = ParseInteger[int64]([]byte("9223372036854775808"), 10)
	assertKind(t, err, types.ValueOutOfRange)
}

func TestParseIntegerBases(t *testing.T) {
	tests := []struct {
		input string
		base  int
		want  int
		pos   int
	}{
		{"ff", 16, 255, 2},
		{"FFg", 16, 255, 2},
		{"777", 8, 511, 3},
		{"1018", 2, 5, 3},
		{"z", 36, 35, 1},
		{"10", 0, 10, 2},
	}

	for _, tt := range tests {
		got, pos, err := ParseInteger[int]([]byte(tt.input), tt.base)
		if err != nil {
			t.Errorf("ParseInteger(%q, %d): %v", tt.input, tt.base, err)
			continue
		}
		if got != tt.want || pos != tt.pos {
			t.Errorf("ParseInteger(%q, %d) = %d, %d; want %d, %d", tt.input, tt.base, got, pos, tt.want, tt.pos)
		}
	}

	_, _, err := ParseInteger[int]([]byte("0x10"), 16)
	if err != nil {
		t.Fatalf("0x10: %v", err)
	}
	_, _, err = ParseInteger[int]([]byte("10"), 37)
	assertKind(t, err, types.InvalidOperation)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		pos   int
	}{
		{"integer", "42", 42, 2},
		{"fraction", "3.25x", 3.25, 4},
		{"leading dot", ".5", 0.5, 2},
		{"exponent", "1e3", 1000, 3},
		{"signed exponent", "-2.5E-2,", -0.025, 7},
		{"dangling exponent", "7e", 7, 1},
		{"zero", "0.000", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos, err := ParseFloat[float64]([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || pos != tt.pos {
				t.Errorf("ParseFloat(%q) = %v, %d; want %v, %d", tt.input, got, pos, tt.want, tt.pos)
			}
		})
	}
}

func TestParseFloatSpecial(t *testing.T) {
	v, pos, err := ParseFloat[float64]([]byte("-Infinity"))
	if err != nil || !math.IsInf(v, -1) || pos != 9 {
		t.Errorf("-Infinity = %v, %d, %v", v, pos, err)
	}
	v, pos, err = ParseFloat[float64]([]byte("inf"))
	if err != nil || !math.IsInf(v, 1) || pos != 3 {
		t.Errorf("inf = %v, %d, %v", v, pos, err)
	}
	v, _, err = ParseFloat[float64]([]byte("NaN"))
	if err != nil || !math.IsNaN(v) {
		t.Errorf("NaN = %v, %v", v, err)
	}
}

func TestParseFloatRange(t *testing.T) {
	v, _, err := ParseFloat[float64]([]byte("1e400"))
	assertKind(t, err, types.ValueOutOfRange)
	if v != math.MaxFloat64 || !strings.Contains(err.Error(), "overflow") {
		t.Errorf("1e400 = %v, %v", v, err)
	}

	v, _, err = ParseFloat[float64]([]byte("-1e400"))
	assertKind(t, err, types.ValueOutOfRange)
	if v != -math.MaxFloat64 {
		t.Errorf("-1e400 = %v", v)
	}

	_, _, err = ParseFloat[float64]([]byte("1e-400"))
	assertKind(t, err, types.ValueOutOfRange)
	if !strings.Contains(err.Error(), "underflow") {
		t.Errorf("1e-400: %v", err)
	}

	f32, _, err := ParseFloat[float32]([]byte("1e39"))
	assertKind(t, err, types.ValueOutOfRange)
	if f32 != math.MaxFloat32 {
		t.Errorf("float32 overflow saturated to %v", f32)
	}
}

func TestParseFloatInvalid(t *testing.T) {
	for _, in := range []string{"", "+1", "abc", ".", "-", "e5"} {
		_, _, err := ParseFloat[float64]([]byte(in))
		assertKind(t, err, types.InvalidScannedValue)
	}
}
