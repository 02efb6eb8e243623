package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVReporter writes a header row followed by one row per record. The first
// two columns hold the source and line number.
type CSVReporter struct {
	Delimiter rune
}

// NewCSVReporter creates a new CSV reporter using commas
func NewCSVReporter() *CSVReporter {
	return &CSVReporter{Delimiter: ','}
}

// Format writes the records as CSV
func (r *CSVReporter) Format(set *RecordSet, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if r.Delimiter != 0 {
		w.Comma = r.Delimiter
	}

	width := set.width()
	header := make([]string, 0, width+2)
	header = append(header, "source", "line")
	for i := 0; i < width; i++ {
		header = append(header, set.columnName(i))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	row := make([]string, width+2)
	for _, rec := range set.Records {
		row[0] = rec.Source
		row[1] = strconv.Itoa(rec.Line)
		for i := 0; i < width; i++ {
			row[i+2] = ""
			if i < len(rec.Values) {
				row[i+2] = ToString(rec.Values[i])
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// FormatString returns the records as CSV
func (r *CSVReporter) FormatString(set *RecordSet) (string, error) {
	var buf bytes.Buffer
	if err := r.Format(set, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Name returns the name of this reporter
func (r *CSVReporter) Name() string {
	return "csv"
}
