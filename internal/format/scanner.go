package format

import (
	"strconv"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Scanner splits a format string into tokens
type Scanner struct {
	src     string
	pos     int
	grammar Grammar
	next    int // next automatic argument index
}

// NewScanner creates a scanner over src
func NewScanner(src string, g Grammar) *Scanner {
	return &Scanner{src: src, grammar: g}
}

// Pos returns the byte offset of the next character to be read.
func (s *Scanner) Pos() int { return s.pos }

/*
 * Scan returns the next token. Token{Type: EOF} marks the end of the format.
 *
 * Whitespace is checked first so that "{} {}" and "%d %d" both come out as
 * placeholder, whitespace, placeholder. Literal runs stop at the first
 * whitespace or placeholder opener; an escaped opener is returned as its own
 * one-character literal.
 */
func (s *Scanner) Scan() (Token, error) {
	if s.pos >= len(s.src) {
		return Token{Type: EOF, Pos: s.pos}, nil
	}
	start := s.pos
	ch := s.src[s.pos]

	switch {
	case isSpace(ch):
		for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
			s.pos++
		}
		return Token{Type: Whitespace, Text: s.src[start:s.pos], Pos: start}, nil

	case s.grammar == Brace && (ch == '{' || ch == '}') && s.peek(1) == ch:
		s.pos += 2
		return Token{Type: Literal, Text: string(ch), Pos: start}, nil

	case s.grammar == Brace && ch == '{':
		return s.brace(start)

	case s.grammar == Brace && ch == '}':
		return Token{}, types.Errorf(types.InvalidOperation, "unmatched '}' at offset %d in format string", start)

	case s.grammar == Scanf && ch == '%' && s.peek(1) == '%':
		s.pos += 2
		return Token{Type: Literal, Text: "%", Pos: start}, nil

	case s.grammar == Scanf && ch == '%':
		return s.percent(start)
	}

	for s.pos < len(s.src) && !isSpace(s.src[s.pos]) && !s.opener(s.src[s.pos]) {
		s.pos++
	}
	return Token{Type: Literal, Text: s.src[start:s.pos], Pos: start}, nil
}

// ScanAll tokenizes the whole format, excluding the EOF token
func (s *Scanner) ScanAll() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := s.Scan()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Parse tokenizes src with grammar g
func Parse(src string, g Grammar) ([]Token, error) {
	return NewScanner(src, g).ScanAll()
}

// Empty returns the tokens of the default format for n arguments: each
// placeholder is preceded by a whitespace skip, so leading whitespace and
// any whitespace between values is accepted.
func Empty(n int) []Token {
	tokens := make([]Token, 0, 2*n)
	for i := 0; i < n; i++ {
		tokens = append(tokens,
			Token{Type: Whitespace, Text: " "},
			Token{Type: Placeholder, Arg: i, Spec: DefaultSpec, Text: "{}"})
	}
	return tokens
}

// Placeholders counts the placeholders in tokens
func Placeholders(tokens []Token) int {
	n := 0
	for _, tok := range tokens {
		if tok.Type == Placeholder {
			n++
		}
	}
	return n
}

/*
 * brace parses "{" [index] [":" spec] "}".
 *
 * The index is a decimal argument number; without one the next automatic
 * index is used. Spec letters may be combined, e.g. "{:Lx}".
 */
func (s *Scanner) brace(start int) (Token, error) {
	s.pos++ // {

	arg := -1
	digits := s.pos
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	if s.pos > digits {
		n, err := strconv.Atoi(s.src[digits:s.pos])
		if err != nil {
			return Token{}, types.Errorf(types.InvalidOperation, "invalid argument index %q", s.src[digits:s.pos])
		}
		arg = n
	}

	spec := DefaultSpec
	if s.peek(0) == ':' {
		s.pos++
		for s.pos < len(s.src) && s.src[s.pos] != '}' {
			if err := applyVerb(&spec, s.src[s.pos]); err != nil {
				return Token{}, err
			}
			s.pos++
		}
	}

	if s.peek(0) != '}' {
		return Token{}, types.Errorf(types.InvalidOperation, "unterminated placeholder at offset %d in format string", start)
	}
	s.pos++

	if arg < 0 {
		arg = s.next
		s.next++
	}
	return Token{Type: Placeholder, Text: s.src[start:s.pos], Arg: arg, Spec: spec, Pos: start}, nil
}

// percent parses "%" ["L"] verb
func (s *Scanner) percent(start int) (Token, error) {
	s.pos++ // %

	spec := DefaultSpec
	if s.peek(0) == 'L' {
		spec.Localized = true
		s.pos++
	}

	verb := s.peek(0)
	if verb == 0 {
		return Token{}, types.Errorf(types.InvalidOperation, "missing conversion after '%%' at offset %d", start)
	}
	if err := applyVerb(&spec, verb); err != nil {
		return Token{}, err
	}
	s.pos++

	arg := s.next
	s.next++
	return Token{Type: Placeholder, Text: s.src[start:s.pos], Arg: arg, Spec: spec, Pos: start}, nil
}

// applyVerb folds one conversion letter into spec
func applyVerb(spec *Spec, verb byte) error {
	switch verb {
	case 'd', 'u':
		spec.Base = 10
	case 'i':
		spec.Base = 0
	case 'x', 'X':
		spec.Base = 16
	case 'o':
		spec.Base = 8
	case 'b':
		spec.Base = 2
	case 'L':
		spec.Localized = true
		return nil
	case 'f', 'e', 'g', 'a', 's', 'c':
	default:
		return types.Errorf(types.InvalidOperation, "unknown conversion %q in format string", verb)
	}
	spec.Verb = verb
	return nil
}

func (s *Scanner) opener(ch byte) bool {
	if s.grammar == Scanf {
		return ch == '%'
	}
	return ch == '{' || ch == '}'
}

func (s *Scanner) peek(offset int) byte {
	i := s.pos + offset
	if i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func isSpace(ch byte) bool {
	return ch == ' ' || (ch >= '\t' && ch <= '\r')
}
