package diag

import (
	"testing"
)

func TestFormatShort(t *testing.T) {
	issues := []Issue{
		{Line: 5, Content: `x,"a,b`, Diagnosis: UnbalancedQuotes(), Severity: SevError},
		{Line: 3, Content: "1,2", Diagnosis: FieldCountMismatch(2, 3), Severity: SevError},
		{Line: 4, Content: "1", Diagnosis: FieldCountMismatch(1, 1), Severity: SevWarning},
	}

	expected := "error CSV0002 data/orders.csv:3 expected 3 fields, found 2\n" +
		"warning CSV0002 data/orders.csv:4 expected 1 field, found 1\n" +
		"error CSV0001 data/orders.csv:5 unbalanced quotes"

	if got := FormatShort("./data/orders.csv", issues); got != expected {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if issues[0].Line != 5 {
		t.Fatalf("FormatShort must not reorder its input")
	}
}

func TestFormatShortEmpty(t *testing.T) {
	if got := FormatShort("a.csv", nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
