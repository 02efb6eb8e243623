package report

import (
	"fmt"
	"io"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

// RecordSet is what a scan run produced: the column names and every
// accepted record, in input order
type RecordSet struct {
	Columns []string
	Records []types.Record
}

// Formatter is an interface for record set formatters
type Formatter interface {
	// Format formats the records and writes to the writer
	Format(set *RecordSet, writer io.Writer) error

	// FormatString returns the records as a string
	FormatString(set *RecordSet) (string, error)

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported output formats
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
	FormatCSV  FormatType = "csv"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(), nil
	case FormatJSON:
		return NewJSONReporter(), nil
	case FormatCSV:
		return NewCSVReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json, csv)", format)
	}
}

// FormatToWriter formats records to a writer using the specified format
func FormatToWriter(set *RecordSet, format FormatType, writer io.Writer) error {
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(set, writer)
}

// FormatToString formats records to a string using the specified format
func FormatToString(set *RecordSet, format FormatType) (string, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return "", err
	}
	return formatter.FormatString(set)
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatText, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatCSV)}
}

// columnName returns the name of column i, inventing one past the header
func (s *RecordSet) columnName(i int) string {
	if i < len(s.Columns) && s.Columns[i] != "" {
		return s.Columns[i]
	}
	return fmt.Sprintf("col%d", i+1)
}

// width is the widest record, at least the number of named columns
func (s *RecordSet) width() int {
	n := len(s.Columns)
	for _, r := range s.Records {
		if len(r.Values) > n {
			n = len(r.Values)
		}
	}
	return n
}
