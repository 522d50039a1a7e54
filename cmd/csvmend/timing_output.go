package main

import (
	"fmt"
	"io"

	"csvmend/internal/driver"
	"csvmend/internal/observ"
)

func printFileTimings(out io.Writer, results []driver.FileResult) {
	if out == nil {
		return
	}
	for _, res := range results {
		printReport(out, res.Path, res.Timing)
	}
}

func printReport(out io.Writer, label string, report observ.Report) {
	if len(report.Phases) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:", label)
	for _, p := range report.Phases {
		fmt.Fprintf(out, " %s %.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(out, " (%s)", p.Note)
		}
		fmt.Fprint(out, ";")
	}
	fmt.Fprintf(out, " total %.1f ms\n", report.TotalMS)
}
