package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"csvmend/internal/diag"
	"csvmend/internal/driver"
	"csvmend/internal/ui"
)

type palette struct {
	path, err, warn, info, code, dim, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path: color.New(color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		code: color.New(color.FgMagenta),
		dim:  color.New(color.Faint),
		fix:  color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.path, p.err, p.warn, p.info, p.code, p.dim, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes results in a human-readable form. Each file gets a header,
// then one block per issue:
//
//	line <N>: <sev> <CODE> <message>
//	  | <content>
//	  fix: <title> -> <replacement>
//
// and a closing summary line across all files.
func Pretty(w io.Writer, results []driver.FileResult, opts PrettyOpts) {
	p := newPalette(opts.Color)
	issues, failed := 0, 0

	for _, res := range results {
		path := displayPath(res.Path, opts.PathMode, opts.BaseDir)
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%s: %s %s %s\n", p.path.Sprint(path), p.err.Sprint("error"),
				p.code.Sprint(ErrorCode(res.Err).ID()), res.Err.Error())
			continue
		}
		found := res.Issues()
		issues += len(found)
		if len(found) == 0 {
			fmt.Fprintf(w, "%s: %s\n", p.path.Sprint(path), p.fix.Sprint("no issues"))
			continue
		}

		fmt.Fprintf(w, "%s %s\n", p.path.Sprint(path),
			p.dim.Sprintf("(%s, %d fields, %d lines)", res.Encoding, res.Result.Expected, res.Result.Lines))
		for _, is := range found {
			fmt.Fprintf(w, "  line %d: %s %s %s\n", is.Line,
				p.severity(is.Severity).Sprint(is.Severity.Label()),
				p.code.Sprint(is.Code().ID()), is.Diagnosis.String())
			fmt.Fprintf(w, "    %s %s\n", p.dim.Sprint("|"), ui.Truncate(is.Content, opts.Width))
			if opts.ShowFixes {
				for _, f := range is.Fixes {
					fmt.Fprintf(w, "    %s %s -> %s\n", p.fix.Sprint("fix:"), f.Title, ui.Truncate(f.Replacement, opts.Width))
				}
			}
		}
		if res.Result.Dropped > 0 {
			fmt.Fprintf(w, "  %s\n", p.dim.Sprintf("... %d more not shown", res.Result.Dropped))
		}
	}

	fmt.Fprintf(w, "%s, %s", plural(len(results), "file"), plural(issues, "issue"))
	if failed > 0 {
		fmt.Fprintf(w, ", %s", p.err.Sprintf("%d failed", failed))
	}
	fmt.Fprintln(w)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
