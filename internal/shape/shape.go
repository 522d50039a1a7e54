// Package shape implements the two structural checks run on a single CSV line:
// a quote-aware field counter and a quote balance check.
//
// Both are total functions over any string, including the empty one: an empty
// line has one field and is balanced. Neither validates that quotes are
// well-formed; they only have to agree with themselves so a data line can be
// compared against the header.
package shape

const (
	// Delimiter separates fields. Custom delimiters are not modelled.
	Delimiter = ','
	// Quote opens and closes a quoted section.
	Quote = '"'
)

// FieldCount returns the number of logical fields in line. Delimiters inside a
// quoted section do not split a field. Doubled quotes are not unescaped: each
// quote simply toggles the quoted state.
func FieldCount(line string) int {
	inQuotes := false
	count := 1
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case Quote:
			inQuotes = !inQuotes
		case Delimiter:
			if !inQuotes {
				count++
			}
		}
	}
	return count
}

// QuoteCount returns the number of quote characters in line.
func QuoteCount(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		if line[i] == Quote {
			n++
		}
	}
	return n
}

// Unbalanced reports whether line contains an odd number of quote characters,
// meaning a quoted section was opened and never closed on this line.
func Unbalanced(line string) bool {
	return QuoteCount(line)%2 != 0
}

// SplitFields splits line into its logical fields using the same rules as
// FieldCount, so len(SplitFields(l)) == FieldCount(l) for every l. Fields are
// returned verbatim, quotes included.
func SplitFields(line string) []string {
	fields := make([]string, 0, 8)
	inQuotes := false
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case Quote:
			inQuotes = !inQuotes
		case Delimiter:
			if !inQuotes {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}
