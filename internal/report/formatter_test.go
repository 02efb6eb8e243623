package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/pgscan/pkg/types"
)

func TestGetFormatter(t *testing.T) {
	for _, name := range SupportedFormats() {
		f, err := GetFormatter(FormatType(name))
		if err != nil {
			t.Fatalf("GetFormatter(%s) failed: %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("formatter name mismatch: got %s, want %s", f.Name(), name)
		}
		if !ValidFormat(name) {
			t.Errorf("ValidFormat(%s) = false", name)
		}
	}

	if _, err := GetFormatter("lcov"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}

func TestTextReporter(t *testing.T) {
	got, err := FormatToString(testRecords(), FormatText)
	if err != nil {
		t.Fatalf("FormatToString failed: %v", err)
	}
	want := "data.txt:1\t1\talice\n" +
		"data.txt:3\t2\tbob\n" +
		"-:1\t3\tcarol\tx\n"
	if got != want {
		t.Errorf("text output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	whole := &RecordSet{Records: []types.Record{{Source: "list.txt", Values: []any{1.5, true}}}}
	got, _ = FormatToString(whole, FormatText)
	if got != "list.txt\t1.5\ttrue\n" {
		t.Errorf("records without a line number: got %q", got)
	}
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatToWriter(testRecords(), FormatCSV, &buf); err != nil {
		t.Fatalf("FormatToWriter failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "source,line,id,name,col3" {
		t.Errorf("header mismatch: %s", got)
	}
	if got := strings.Join(rows[1], ","); got != "data.txt,1,1,alice," {
		t.Errorf("row mismatch: %s", got)
	}
	if got := strings.Join(rows[3], ","); got != "-,1,3,carol,x" {
		t.Errorf("row mismatch: %s", got)
	}
}

func TestCSVReporterQuoting(t *testing.T) {
	set := &RecordSet{
		Columns: []string{"text"},
		Records: []types.Record{{Source: "a", Line: 1, Values: []any{"x,y"}}},
	}
	r := &CSVReporter{Delimiter: ';'}
	got, err := r.FormatString(set)
	if err != nil {
		t.Fatalf("FormatString failed: %v", err)
	}
	if got != "source;line;text\na;1;x,y\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{[]byte("b"), "b"},
		{true, "true"},
		{int64(-5), "-5"},
		{uint64(7), "7"},
		{0.25, "0.25"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
