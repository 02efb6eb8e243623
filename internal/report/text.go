package report

import (
	"fmt"
	"io"
	"strings"
)

// TextReporter writes one tab-separated line per record, prefixed with
// its source position
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes the records as text lines
func (r *TextReporter) Format(set *RecordSet, writer io.Writer) error {
	content, err := r.FormatString(set)
	if err != nil {
		return err
	}
	_, err = io.WriteString(writer, content)
	if err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// FormatString returns the records as text
func (r *TextReporter) FormatString(set *RecordSet) (string, error) {
	var sb strings.Builder
	for _, rec := range set.Records {
		if rec.Line > 0 {
			fmt.Fprintf(&sb, "%s:%d", rec.Source, rec.Line)
		} else {
			sb.WriteString(rec.Source)
		}
		for _, v := range rec.Values {
			sb.WriteByte('\t')
			sb.WriteString(ToString(v))
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
