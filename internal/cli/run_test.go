package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Stderr
	Stderr = &buf
	t.Cleanup(func() { Stderr = old })
	return &buf
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return string(data)
}

func TestScanWorkflow(t *testing.T) {
	stderr := captureStderr(t)
	dir := t.TempDir()
	in := writeInput(t, dir, "points.txt", "(1, 2)\n(3, 4)\n(x, 5)\n")
	out := filepath.Join(dir, "out.csv")

	cfg := LoadConfig()
	cfg.Format = "({}, {})"
	cfg.Types = []string{"int", "int"}
	cfg.Columns = []string{"x", "y"}
	cfg.Output = "csv"
	cfg.OutputPath = out

	code, err := Scan(context.Background(), cfg, []string{in})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if code != 1 {
		t.Errorf("expected exit code 1 for a rejected line, got %d", code)
	}

	lines := strings.Split(strings.TrimSpace(readOutput(t, out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", lines)
	}
	if lines[0] != "source,line,x,y" {
		t.Errorf("header mismatch: %s", lines[0])
	}
	if !strings.HasSuffix(lines[2], ",2,3,4") {
		t.Errorf("row mismatch: %s", lines[2])
	}
	if !strings.Contains(stderr.String(), "points.txt:3:") {
		t.Errorf("expected the rejected position on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "2 accepted, 1 rejected") {
		t.Errorf("expected a summary on stderr, got %q", stderr.String())
	}
}

func TestScanWorkflowLocalized(t *testing.T) {
	captureStderr(t)
	dir := t.TempDir()
	in := writeInput(t, dir, "de.txt", "Summe: 1.234,5\n")
	out := filepath.Join(dir, "out.txt")

	cfg := LoadConfig()
	cfg.Format = "Summe: {:L}"
	cfg.Types = []string{"float"}
	cfg.Locale = "de_DE"
	cfg.OutputPath = out

	code, err := Scan(context.Background(), cfg, []string{in})
	if err != nil || code != 0 {
		t.Fatalf("Scan = %d, %v", code, err)
	}
	if got := readOutput(t, out); !strings.HasSuffix(got, "\t1234.5\n") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestListWorkflow(t *testing.T) {
	captureStderr(t)
	dir := t.TempDir()
	writeInput(t, dir, "a.lst", "1;2;3\n")
	writeInput(t, dir, "b.lst", "4; 5\n")
	writeInput(t, dir, "skip.txt", "not a list\n")
	out := filepath.Join(dir, "out.json")

	cfg := LoadConfig()
	cfg.Types = []string{"int"}
	cfg.Separator = ";"
	cfg.Include = "*.lst"
	cfg.Output = "json"
	cfg.OutputPath = out
	cfg.Parallelism = 2

	code, err := List(context.Background(), cfg, []string{dir})
	if err != nil || code != 0 {
		t.Fatalf("List = %d, %v", code, err)
	}

	var doc struct {
		Records []struct {
			Source string         `json:"source"`
			Values map[string]any `json:"values"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(readOutput(t, out)), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("expected one record per list file, got %d", len(doc.Records))
	}
	if len(doc.Records[0].Values) != 3 || len(doc.Records[1].Values) != 2 {
		t.Errorf("unexpected list sizes: %+v", doc.Records)
	}
}

func TestScanWorkflowMissingInput(t *testing.T) {
	captureStderr(t)
	cfg := LoadConfig()
	cfg.Format = "{}"
	if _, err := Scan(context.Background(), cfg, []string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected an error for a missing input")
	}
}
