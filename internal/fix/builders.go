package fix

import (
	"fmt"
	"strings"

	"csvmend/internal/diag"
	"csvmend/internal/shape"
)

// Suggest returns the candidate replacements for a line with diagnosis d.
// content is the trimmed line text. The order is stable: the first entry is
// the least destructive.
func Suggest(content string, d diag.Diagnosis) []diag.Fix {
	switch d.Kind {
	case diag.KindUnbalancedQuotes:
		return []diag.Fix{CloseQuote(content), RemoveQuotes(content)}
	case diag.KindFieldCountMismatch:
		switch {
		case d.Found < d.Expected:
			return []diag.Fix{PadFields(content, d.Expected-d.Found)}
		case d.Found > d.Expected && d.Expected > 0:
			return []diag.Fix{
				MergeTrailing(content, d.Expected),
				DropTrailing(content, d.Expected),
			}
		}
	}
	return nil
}

// CloseQuote appends the missing closing quote.
func CloseQuote(content string) diag.Fix {
	return diag.Fix{
		Title:       "close the open quote",
		Replacement: content + string(shape.Quote),
	}
}

// RemoveQuotes strips every quote character from the line.
func RemoveQuotes(content string) diag.Fix {
	return diag.Fix{
		Title:       "remove stray quotes",
		Replacement: strings.ReplaceAll(content, string(shape.Quote), ""),
	}
}

// PadFields appends n empty fields.
func PadFields(content string, n int) diag.Fix {
	return diag.Fix{
		Title:       fmt.Sprintf("pad with %d empty %s", n, plural(n, "field")),
		Replacement: content + strings.Repeat(string(shape.Delimiter), n),
	}
}

// MergeTrailing keeps the first expected-1 fields and quotes everything
// after them as a single value, which is the usual shape of an unquoted
// value containing the delimiter (a price like $1,299.99).
func MergeTrailing(content string, expected int) diag.Fix {
	fields := shape.SplitFields(content)
	keep := expected - 1
	tail := len(fields) - keep
	merged := strings.Join(fields[keep:], string(shape.Delimiter))
	merged = strings.ReplaceAll(merged, `"`, `""`)

	parts := append(fields[:keep:keep], `"`+merged+`"`)
	return diag.Fix{
		Title:       fmt.Sprintf("quote the last %d fields as one value", tail),
		Replacement: strings.Join(parts, string(shape.Delimiter)),
	}
}

// DropTrailing cuts the line down to the first expected fields.
func DropTrailing(content string, expected int) diag.Fix {
	fields := shape.SplitFields(content)
	n := len(fields) - expected
	return diag.Fix{
		Title:       fmt.Sprintf("drop %d trailing %s", n, plural(n, "field")),
		Replacement: strings.Join(fields[:expected], string(shape.Delimiter)),
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
