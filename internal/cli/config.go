package cli

import (
	"fmt"
	"strings"

	"github.com/cybertec-postgresql/pgscan/internal/database"
	"github.com/cybertec-postgresql/pgscan/internal/format"
	"github.com/cybertec-postgresql/pgscan/internal/locale"
	"github.com/cybertec-postgresql/pgscan/internal/runner"
	"github.com/cybertec-postgresql/pgscan/pkg/scn"
	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Grammar:     "brace",
	Types:       []string{"string"},
	Putback:     512,
	Output:      "text",
	OutputPath:  "-",
	Parallelism: 1,
	Verbose:     false,
}

// LoadConfig returns a fresh copy of the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig
	cfg.Types = append([]string(nil), DefaultConfig.Types...)
	return &cfg
}

// Flags carries the command-line values; zero values leave the config as is
type Flags struct {
	Format      string
	Grammar     string
	Types       []string
	Separator   string
	Locale      string
	Encoding    string
	Putback     int
	Include     string
	Output      string
	OutputPath  string
	Parallelism int
	Connection  string
	Table       string
	Columns     []string
	CreateTable bool
	Verbose     bool
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Grammar != "" {
		c.Grammar = f.Grammar
	}
	if len(f.Types) > 0 {
		c.Types = splitList(f.Types)
	}
	if f.Separator != "" {
		c.Separator = f.Separator
	}
	if f.Locale != "" {
		c.Locale = f.Locale
	}
	if f.Encoding != "" {
		c.Encoding = f.Encoding
	}
	if f.Putback != 0 {
		c.Putback = f.Putback
	}
	if f.Include != "" {
		c.Include = f.Include
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.OutputPath != "" {
		c.OutputPath = f.OutputPath
	}
	if f.Parallelism != 0 {
		c.Parallelism = f.Parallelism
	}
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Table != "" {
		c.Table = f.Table
	}
	if len(f.Columns) > 0 {
		c.Columns = splitList(f.Columns)
	}
	c.CreateTable = c.CreateTable || f.CreateTable
	c.Verbose = f.Verbose
}

// splitList accepts both repeated flags and comma-separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ValidateScan checks a configuration for the scan and load commands
func ValidateScan(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Format == "" {
		return &ConfigError{Field: "format", Message: "a format string is required"}
	}
	g, err := format.ParseGrammar(c.Grammar)
	if err != nil {
		return &ConfigError{Field: "grammar", Message: err.Error()}
	}
	tokens, err := format.Parse(c.Format, g)
	if err != nil {
		return &ConfigError{Field: "format", Message: err.Error()}
	}
	if n := format.Placeholders(tokens); n != len(c.Types) {
		return &ConfigError{Field: "types", Message: fmt.Sprintf("format has %d placeholders but %d types were given", n, len(c.Types))}
	}
	return nil
}

// ValidateLoad additionally checks the PostgreSQL settings
func ValidateLoad(c *Config) error {
	if err := ValidateScan(c); err != nil {
		return err
	}
	if c.Table == "" {
		return &ConfigError{Field: "table", Message: "a target table is required"}
	}
	if _, err := database.ParseIdentifier(c.Table); err != nil {
		return &ConfigError{Field: "table", Message: err.Error()}
	}
	return nil
}

// ValidateList checks a configuration for the list command
func ValidateList(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Types) != 1 {
		return &ConfigError{Field: "types", Message: "a list has exactly one value type"}
	}
	if k, _ := types.ParseValueKind(c.Types[0]); k == types.KindSkip {
		return &ConfigError{Field: "types", Message: "a list cannot be of type skip"}
	}
	return nil
}

// Kinds converts the configured type names
func Kinds(c *Config) ([]types.ValueKind, error) {
	kinds := make([]types.ValueKind, len(c.Types))
	for i, name := range c.Types {
		k, err := types.ParseValueKind(name)
		if err != nil {
			return nil, &ConfigError{Field: "types", Message: err.Error()}
		}
		kinds[i] = k
	}
	return kinds, nil
}

// NewExecutor builds the scanner and executor described by the config.
// The locale's encoding, or the explicit one, is used to transcode input;
// scanning then runs on UTF-8.
func NewExecutor(c *Config, mode runner.Mode) (*runner.Executor, error) {
	facet, err := locale.Parse(c.Locale)
	if err != nil {
		return nil, &ConfigError{Field: "locale", Message: err.Error()}
	}
	enc := facet.Encoding()
	if c.Encoding != "" {
		if enc, err = locale.LookupEncoding(c.Encoding); err != nil {
			return nil, &ConfigError{Field: "encoding", Message: err.Error()}
		}
	}

	g, err := format.ParseGrammar(c.Grammar)
	if err != nil {
		return nil, &ConfigError{Field: "grammar", Message: err.Error()}
	}
	kinds, err := Kinds(c)
	if err != nil {
		return nil, err
	}

	var sep byte
	if c.Separator != "" {
		sep = c.Separator[0]
	}

	s := scn.New(scn.WithLocale(facet.UTF8()), scn.WithPutback(c.Putback))
	return runner.NewExecutor(s, runner.Options{
		Mode:      mode,
		Format:    c.Format,
		Grammar:   g,
		Kinds:     kinds,
		Separator: sep,
		Encoding:  enc,
		Verbose:   c.Verbose,
	}), nil
}
