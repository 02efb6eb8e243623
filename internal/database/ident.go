package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ParseIdentifier splits a possibly schema-qualified name the way the server
// reads it: unquoted parts are folded to lower case, double-quoted parts are
// kept verbatim with "" standing for a literal quote.
func ParseIdentifier(name string) (pgx.Identifier, error) {
	var (
		parts pgx.Identifier
		pos   int
	)
	for {
		part, next, err := identPart(name, pos)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		if next == len(name) {
			return parts, nil
		}
		if name[next] != '.' {
			return nil, fmt.Errorf("invalid identifier %q: unexpected %q at offset %d", name, name[next], next)
		}
		pos = next + 1
	}
}

// identPart reads one identifier starting at pos and returns the offset after it
func identPart(src string, pos int) (string, int, error) {
	if pos < len(src) && src[pos] == '"' {
		var sb strings.Builder
		for i := pos + 1; i < len(src); i++ {
			if src[i] != '"' {
				sb.WriteByte(src[i])
				continue
			}
			if i+1 < len(src) && src[i+1] == '"' {
				sb.WriteByte('"')
				i++
				continue
			}
			if sb.Len() == 0 {
				return "", 0, fmt.Errorf("invalid identifier %q: zero-length quoted name", src)
			}
			return sb.String(), i + 1, nil
		}
		return "", 0, fmt.Errorf("invalid identifier %q: unterminated quoted name", src)
	}

	end := pos
	for end < len(src) && src[end] != '.' && src[end] != '"' {
		end++
	}
	part := strings.TrimSpace(src[pos:end])
	if part == "" {
		return "", 0, fmt.Errorf("invalid identifier %q: empty name at offset %d", src, pos)
	}
	return strings.ToLower(part), end, nil
}
