package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sambabib/depnotify/pkg/analyzer"
)

// PrintTextReport prints the report items in a tabular text format
func PrintTextReport(w io.Writer, reports []analyzer.ReportItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) // minwidth, tabwidth, padding, padchar, flags

	fmt.Fprintln(tw, "NAME\tCURRENT\tLATEST\tKIND\tSEVERITY")
	fmt.Fprintln(tw, "----\t-------\t------\t----\t--------")

	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			r.CurrentVersion,
			r.LatestVersion,
			r.Kind,
			r.Severity,
		)
	}

	return tw.Flush()
}
