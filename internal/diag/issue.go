package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a structural defect.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindUnbalancedQuotes marks a line with an odd number of quote characters.
	KindUnbalancedQuotes
	// KindFieldCountMismatch marks a balanced line whose field count differs
	// from the header.
	KindFieldCountMismatch
)

func (k Kind) String() string {
	switch k {
	case KindUnbalancedQuotes:
		return "unbalanced_quotes"
	case KindFieldCountMismatch:
		return "field_count_mismatch"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unbalanced_quotes":
		*k = KindUnbalancedQuotes
	case "field_count_mismatch":
		*k = KindFieldCountMismatch
	case "unknown":
		*k = KindUnknown
	default:
		return fmt.Errorf("unknown issue kind %q", string(b))
	}
	return nil
}

// Diagnosis is what is wrong with a line. Found and Expected are set only for
// KindFieldCountMismatch.
type Diagnosis struct {
	Kind     Kind `json:"kind" msgpack:"kind"`
	Found    int  `json:"found,omitempty" msgpack:"found,omitempty"`
	Expected int  `json:"expected,omitempty" msgpack:"expected,omitempty"`
}

func UnbalancedQuotes() Diagnosis {
	return Diagnosis{Kind: KindUnbalancedQuotes}
}

func FieldCountMismatch(found, expected int) Diagnosis {
	return Diagnosis{Kind: KindFieldCountMismatch, Found: found, Expected: expected}
}

// Code maps the diagnosis onto its stable code.
func (d Diagnosis) Code() Code {
	switch d.Kind {
	case KindUnbalancedQuotes:
		return CSVUnbalancedQuotes
	case KindFieldCountMismatch:
		return CSVFieldCountMismatch
	}
	return UnknownCode
}

func (d Diagnosis) String() string {
	switch d.Kind {
	case KindUnbalancedQuotes:
		return "unbalanced quotes"
	case KindFieldCountMismatch:
		return fmt.Sprintf("expected %d %s, found %d", d.Expected, plural(d.Expected, "field"), d.Found)
	}
	return "unknown issue"
}

// Fix is a suggested replacement for the whole line.
type Fix struct {
	Title       string `json:"title" msgpack:"title"`
	Replacement string `json:"replacement" msgpack:"replacement"`
}

// Issue is one detected defect, addressed by 1-based line number.
type Issue struct {
	Line      int       `json:"line" msgpack:"line"`
	Content   string    `json:"content" msgpack:"content"`
	Diagnosis Diagnosis `json:"diagnosis" msgpack:"diagnosis"`
	Severity  Severity  `json:"severity" msgpack:"severity"`
	Fixes     []Fix     `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}

func (i Issue) Code() Code {
	return i.Diagnosis.Code()
}

// Message is the one-line human form, e.g. "line 3: expected 3 fields, found 2".
func (i Issue) Message() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Diagnosis)
}

// WithFix returns a copy of the issue with one more suggestion.
func (i Issue) WithFix(title, replacement string) Issue {
	fixes := make([]Fix, len(i.Fixes), len(i.Fixes)+1)
	copy(fixes, i.Fixes)
	i.Fixes = append(fixes, Fix{Title: title, Replacement: replacement})
	return i
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
