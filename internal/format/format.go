/*
 * Package format tokenizes scan format strings.
 *
 * Two grammars are understood:
 *
 *	brace  "{} {1} {:x} {:L}"   with "{{" and "}}" as escapes
 *	scanf  "%d %x %Lf %s"       with "%%" as escape
 *
 * plus the empty grammar used when no format is given, which is n
 * placeholders separated by whitespace.
 *
 * The scanner only reports structure: literal runs, whitespace runs, and
 * placeholders carrying an argument index and their modifiers. What a
 * placeholder means for a particular argument type is up to the value
 * scanners.
 */
package format

import (
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// TokenType is the lexical category of a format token
type TokenType int

const (
	EOF         TokenType = iota
	Literal               // text that must match the input exactly
	Whitespace            // any run of whitespace; skips any input whitespace
	Placeholder           // one argument to scan
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case Literal:
		return "Literal"
	case Whitespace:
		return "Whitespace"
	case Placeholder:
		return "Placeholder"
	}
	return "unknown"
}

// Grammar selects the placeholder syntax
type Grammar int

const (
	Brace Grammar = iota
	Scanf
)

// ParseGrammar maps a grammar name to a Grammar
func ParseGrammar(name string) (Grammar, error) {
	switch name {
	case "", "brace":
		return Brace, nil
	case "scanf":
		return Scanf, nil
	}
	return 0, types.Errorf(types.InvalidOperation, "unknown format grammar %q", name)
}

func (g Grammar) String() string {
	if g == Scanf {
		return "scanf"
	}
	return "brace"
}

// Spec holds the modifiers of a placeholder
type Spec struct {
	Verb      byte // conversion letter, 0 when none was given
	Base      int  // integer base; 0 detects a 0x/0o/0b prefix
	Localized bool // read numbers with the locale's punctuation
}

// DefaultSpec is the spec of a bare placeholder
var DefaultSpec = Spec{Base: 10}

// Token is one element of a format string
type Token struct {
	Type TokenType
	Text string // literal text, or the raw placeholder
	Arg  int    // argument index of a placeholder
	Spec Spec
	Pos  int // byte offset in the format string
}
