package report

import (
	"fmt"
	"io"

	"csvmend/internal/diag"
	"csvmend/internal/driver"
)

// Short writes one line per issue in the diag.FormatShort layout. Files that
// failed to load get a single error line.
func Short(w io.Writer, results []driver.FileResult, opts PrettyOpts) error {
	for _, res := range results {
		path := displayPath(res.Path, opts.PathMode, opts.BaseDir)
		if res.Err != nil {
			if _, err := fmt.Fprintf(w, "error %s %s %s\n", ErrorCode(res.Err).ID(), path, res.Err.Error()); err != nil {
				return err
			}
			continue
		}
		out := diag.FormatShort(path, res.Issues())
		if out == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}
