package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/pgscan/internal/report"
)

// WriteReport formats the record set and writes it to outputPath, "-" being stdout
func WriteReport(set *report.RecordSet, format string, outputPath string) error {
	// Step 1: Validate format
	if !report.ValidFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedFormats())
	}

	// Step 2: Get formatter
	formatter, err := report.GetFormatter(report.FormatType(format))
	if err != nil {
		return err
	}

	// Step 3: Format and output
	var writer io.Writer
	if outputPath == "-" || outputPath == "" {
		writer = os.Stdout
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	if err := formatter.Format(set, writer); err != nil {
		return fmt.Errorf("failed to format records: %w", err)
	}

	// Print success message to stderr (so it doesn't interfere with stdout output)
	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Records written to %s\n", outputPath)
	}

	return nil
}
