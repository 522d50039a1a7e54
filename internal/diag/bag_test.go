package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagCapAndDropped(t *testing.T) {
	b := NewBag(2)
	r := BagReporter{Bag: b}
	for line := 2; line <= 5; line++ {
		ReportError(r, line, "x", UnbalancedQuotes()).Emit()
	}
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 2, b.Dropped())
	assert.True(t, b.Full())
	assert.True(t, b.HasErrors())
}

func TestBagUnlimited(t *testing.T) {
	b := NewBag(0)
	for line := 2; line < 200; line++ {
		require.True(t, b.Add(Issue{Line: line}))
	}
	assert.Equal(t, 198, b.Len())
	assert.False(t, b.Full())
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(Issue{Line: 9, Diagnosis: UnbalancedQuotes()})
	b.Add(Issue{Line: 3, Diagnosis: FieldCountMismatch(2, 3)})
	b.Add(Issue{Line: 9, Diagnosis: UnbalancedQuotes()})
	b.Sort()
	b.Dedup()

	lines := make([]int, 0, b.Len())
	for _, is := range b.Items() {
		lines = append(lines, is.Line)
	}
	assert.Equal(t, []int{3, 9}, lines)
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, 2, "1,2", FieldCountMismatch(2, 3)).
		WithFix("pad with 1 empty field", "1,2,")
	rb.Emit()
	rb.Emit()

	require.Equal(t, 1, b.Len())
	is := b.Items()[0]
	assert.Equal(t, CSVFieldCountMismatch, is.Code())
	assert.Equal(t, "CSV0002", is.Code().ID())
	assert.Equal(t, "line 2: expected 3 fields, found 2", is.Message())
	assert.Equal(t, []Fix{{Title: "pad with 1 empty field", Replacement: "1,2,"}}, is.Fixes)
}

func TestWithFixDoesNotAlias(t *testing.T) {
	base := Issue{Line: 2}.WithFix("a", "1")
	first := base.WithFix("b", "2")
	second := base.WithFix("c", "3")
	assert.Equal(t, "b", first.Fixes[1].Title)
	assert.Equal(t, "c", second.Fixes[1].Title)
	assert.Len(t, base.Fixes, 1)
}

func TestKindJSON(t *testing.T) {
	in := Issue{Line: 4, Content: "a", Diagnosis: FieldCountMismatch(1, 3), Severity: SevError}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"field_count_mismatch"`)

	var out Issue
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("bogus")))
}

func TestCodeIDs(t *testing.T) {
	assert.Equal(t, "CSV0001", CSVUnbalancedQuotes.ID())
	assert.Equal(t, "IO4001", IOLoadFileError.ID())
	assert.Equal(t, "E0000", UnknownCode.ID())
	assert.Equal(t, "[CSV0001]: Unbalanced quotes", CSVUnbalancedQuotes.String())
	assert.Equal(t, "Unknown issue", Code(77).Title())
}
