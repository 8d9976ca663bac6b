package output

import (
	"fmt"
	"io"

	"github.com/sambabib/depnotify/pkg/analyzer"
)

// Write renders reports in the given format: text, json or sarif
func Write(w io.Writer, format string, reports []analyzer.ReportItem, projectPath string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "", "text":
		return PrintTextReport(w, reports)
	case "json":
		out, err = GenerateJSONReport(reports)
	case "sarif":
		out, err = GenerateSarifReport(reports, projectPath)
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or sarif)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report to %s: %w", format, err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
