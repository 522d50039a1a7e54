package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FormatShort renders issues as one line each:
//
//	error CSV0002 data/orders.csv:3 expected 4 fields, found 5
//
// Entries are sorted by line then code and joined by newlines, with no
// trailing newline. The result is empty when there is nothing to report.
func FormatShort(path string, issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}
	sorted := make([]Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Code() < sorted[j].Code()
	})

	p := normalizePath(path)
	var b strings.Builder
	for i, is := range sorted {
		fmt.Fprintf(&b, "%s %s %s:%d %s", is.Severity.Label(), is.Code().ID(), p, is.Line, sanitizeMessage(is.Diagnosis.String()))
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}
