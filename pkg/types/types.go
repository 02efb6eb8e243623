package types

import (
	"fmt"
	"strings"
)

// Config holds runtime configuration combining flags, environment variables, and defaults
type Config struct {
	// Scanning
	Format    string   // Format string applied to every input line
	Grammar   string   // "brace" ({}) or "scanf" (%d)
	Types     []string // Value kind per placeholder (int, float, bool, string, ...)
	Separator string   // List separator for the list command (empty = whitespace)
	Locale    string   // Locale name for localized numbers; empty = C locale
	Encoding  string   // Input encoding name; empty = UTF-8
	Putback   int      // Rollback window kept for stream inputs
	Include   string   // Glob applied to file names found in directories

	// Output
	Output     string // text, json, or csv
	OutputPath string // "-" for stdout

	// Execution
	Parallelism int // Max inputs scanned concurrently

	// PostgreSQL loader
	ConnectionString string
	Table            string
	Columns          []string
	CreateTable      bool

	Verbose bool // Enable debug logging
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the settings shared by every command
func (c *Config) Validate() error {
	switch c.Grammar {
	case "brace", "scanf":
	default:
		return &ConfigError{Field: "grammar", Message: fmt.Sprintf("%q (expected brace or scanf)", c.Grammar)}
	}
	for _, t := range c.Types {
		if _, err := ParseValueKind(t); err != nil {
			return &ConfigError{Field: "types", Message: err.Error()}
		}
	}
	if len(c.Separator) > 1 {
		return &ConfigError{Field: "separator", Message: "must be a single byte"}
	}
	if c.Putback < 0 {
		return &ConfigError{Field: "putback", Message: "must not be negative"}
	}
	if c.Parallelism < 1 {
		return &ConfigError{Field: "parallel", Message: "must be at least 1"}
	}
	switch c.Output {
	case "text", "json", "csv":
	default:
		return &ConfigError{Field: "output format", Message: fmt.Sprintf("%q (expected text, json, or csv)", c.Output)}
	}
	if len(c.Columns) > 0 && len(c.Columns) != len(c.Types) {
		return &ConfigError{Field: "columns", Message: fmt.Sprintf("got %d names for %d types", len(c.Columns), len(c.Types))}
	}
	return nil
}

// ValueKind is the type a placeholder is scanned into by the command-line tool
type ValueKind int

const (
	KindInt ValueKind = iota
	KindUint
	KindFloat
	KindBool
	KindString
	KindChar
	KindSkip // scanned and dropped
)

var valueKindNames = map[string]ValueKind{
	"int":    KindInt,
	"uint":   KindUint,
	"float":  KindFloat,
	"bool":   KindBool,
	"string": KindString,
	"char":   KindChar,
	"skip":   KindSkip,
}

// ParseValueKind converts a kind name as given on the command line
func ParseValueKind(name string) (ValueKind, error) {
	k, ok := valueKindNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown value type %q", name)
	}
	return k, nil
}

func (k ValueKind) String() string {
	for name, v := range valueKindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// Record is one successfully scanned input line
type Record struct {
	Source string // input file, "-" for stdin
	Line   int    // 1-based line number, 0 for whole-input lists
	Values []any
}
