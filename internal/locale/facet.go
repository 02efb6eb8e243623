// Package locale provides the immutable locale facets consulted by the
// scanner: boolean names, decimal point, thousands separator, character
// classification, and an optional single-byte or multi-byte input encoding.
package locale

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Facet is a read-only view of locale-specific scanning rules.
// A Facet is never mutated after construction and may be shared freely.
type Facet struct {
	name         string
	tag          language.Tag
	trueName     string
	falseName    string
	decimalPoint rune
	thousandsSep rune // 0 = no grouping
	enc          encoding.Encoding
	ascii        bool // classify with C-locale rules only
}

// Option customizes a Facet built by New
type Option func(*Facet)

// WithEncoding sets the encoding input units are decoded with.
// A nil encoding means UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(f *Facet) {
		f.enc = enc
	}
}

// WithBoolNames overrides the textual boolean names
func WithBoolNames(trueName, falseName string) Option {
	return func(f *Facet) {
		f.trueName = trueName
		f.falseName = falseName
	}
}

// WithSeparators overrides the decimal point and thousands separator
func WithSeparators(decimalPoint, thousandsSep rune) Option {
	return func(f *Facet) {
		f.decimalPoint = decimalPoint
		f.thousandsSep = thousandsSep
	}
}

var classic = &Facet{
	name:         "C",
	tag:          language.Und,
	trueName:     "true",
	falseName:    "false",
	decimalPoint: '.',
	ascii:        true,
}

// Classic returns the "C" locale facet
func Classic() *Facet {
	return classic
}

// Default returns the process-wide default facet. It is the classic
// locale and is never modified.
func Default() *Facet {
	return classic
}

// New builds a facet for tag. Number punctuation is taken from the CLDR data
// in golang.org/x/text by formatting a probe value with the tag's printer.
func New(tag language.Tag, opts ...Option) *Facet {
	f := &Facet{
		name:      tag.String(),
		tag:       tag,
		trueName:  "true",
		falseName: "false",
	}
	f.decimalPoint, f.thousandsSep = separators(tag)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// separators derives the decimal point and grouping separator for tag
func separators(tag language.Tag) (decimal, group rune) {
	probe := message.NewPrinter(tag).Sprintf("%.1f", 1234567.5)

	// The last non-digit is the decimal point, the first one before it groups
	decimal = '.'
	last := -1
	for i, r := range probe {
		if !isASCIIDigit(r) {
			decimal = r
			last = i
		}
	}
	if last < 0 {
		return '.', 0
	}
	for _, r := range probe[:last] {
		if !isASCIIDigit(r) {
			return decimal, r
		}
	}
	return decimal, 0
}

// Parse resolves a POSIX-style locale name such as "de_DE.ISO-8859-1" or a
// BCP 47 tag such as "de-DE". The empty string, "C", and "POSIX" yield the
// classic facet.
func Parse(name string, opts ...Option) (*Facet, error) {
	switch name {
	case "", "C", "POSIX":
		if len(opts) == 0 {
			return classic, nil
		}
		f := *classic
		for _, opt := range opts {
			opt(&f)
		}
		return &f, nil
	}

	base := name
	if i := strings.IndexByte(base, '@'); i >= 0 {
		base = base[:i]
	}
	var encName string
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base, encName = base[:i], base[i+1:]
	}

	tag, err := language.Parse(strings.ReplaceAll(base, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q: %w", name, err)
	}

	if encName != "" {
		enc, err := LookupEncoding(encName)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", name, err)
		}
		opts = append([]Option{WithEncoding(enc)}, opts...)
	}

	f := New(tag, opts...)
	f.name = name
	return f, nil
}

// LookupEncoding finds an encoding by its WHATWG name or label.
// UTF-8 resolves to nil, the facet's native encoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// Name returns the name the facet was created with
func (f *Facet) Name() string { return f.name }

// Tag returns the language tag of the facet
func (f *Facet) Tag() language.Tag { return f.tag }

// TrueName returns the textual name of true
func (f *Facet) TrueName() string { return f.trueName }

// FalseName returns the textual name of false
func (f *Facet) FalseName() string { return f.falseName }

// DecimalPoint returns the radix character
func (f *Facet) DecimalPoint() rune { return f.decimalPoint }

// ThousandsSep returns the grouping character, or 0 when numbers are not grouped
func (f *Facet) ThousandsSep() rune { return f.thousandsSep }

// Encoding returns the input encoding, nil for UTF-8
func (f *Facet) Encoding() encoding.Encoding { return f.enc }

// IsClassic reports whether f classifies with C-locale rules
func (f *Facet) IsClassic() bool { return f.ascii }

// MaxUnitLen returns the longest byte sequence one code point can occupy
func (f *Facet) MaxUnitLen() int {
	if f.enc == nil {
		return utf8.UTFMax
	}
	return maxMultiByte
}

func (f *Facet) String() string {
	return f.name
}

// UTF8 returns the facet with UTF-8 as its encoding, for input that has
// already been transcoded
func (f *Facet) UTF8() *Facet {
	if f.enc == nil {
		return f
	}
	c := *f
	c.enc = nil
	return &c
}
