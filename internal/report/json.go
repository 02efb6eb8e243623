package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter formats records as a JSON document
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

type jsonDocument struct {
	Columns []string     `json:"columns"`
	Records []jsonRecord `json:"records"`
}

type jsonRecord struct {
	Source string         `json:"source"`
	Line   int            `json:"line,omitempty"`
	Values map[string]any `json:"values"`
}

func (r *JSONReporter) document(set *RecordSet) jsonDocument {
	width := set.width()
	doc := jsonDocument{
		Columns: make([]string, width),
		Records: make([]jsonRecord, 0, len(set.Records)),
	}
	for i := range doc.Columns {
		doc.Columns[i] = set.columnName(i)
	}
	for _, rec := range set.Records {
		values := make(map[string]any, len(rec.Values))
		for i, v := range rec.Values {
			values[doc.Columns[i]] = jsonValue(v)
		}
		doc.Records = append(doc.Records, jsonRecord{Source: rec.Source, Line: rec.Line, Values: values})
	}
	return doc
}

// Format formats records as JSON and writes to the writer
func (r *JSONReporter) Format(set *RecordSet, writer io.Writer) error {
	data, err := json.MarshalIndent(r.document(set), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}

	// Write JSON to writer
	_, err = writer.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	// Add newline
	_, err = writer.Write([]byte("\n"))
	return err
}

// FormatString returns records as a JSON string
func (r *JSONReporter) FormatString(set *RecordSet) (string, error) {
	data, err := json.MarshalIndent(r.document(set), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	return string(data), nil
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
