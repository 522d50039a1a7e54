package detect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"csvmend/internal/diag"
	"csvmend/internal/logging"
	"csvmend/internal/source"
)

var ignoreFixes = cmpopts.IgnoreFields(diag.Issue{}, "Fixes")

func TestDetectFieldCountMismatch(t *testing.T) {
	issues, err := Detect(source.FromLines("a,b,c", "1,2"))
	require.NoError(t, err)

	want := []diag.Issue{{
		Line:      2,
		Content:   "1,2",
		Diagnosis: diag.FieldCountMismatch(2, 3),
		Severity:  diag.SevError,
	}}
	if diff := cmp.Diff(want, issues, ignoreFixes); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectUnbalancedTakesPriority(t *testing.T) {
	issues, err := Detect(source.FromLines("a,b", `x,"a,b`))
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, diag.UnbalancedQuotes(), issues[0].Diagnosis)
	assert.Equal(t, 2, issues[0].Line)
}

func TestDetectSkipsBlankLines(t *testing.T) {
	doc := source.NewDocument("t.csv", "a,b\n\n   \n\t\n1,2\n")
	issues, err := Detect(doc)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDetectShortDocuments(t *testing.T) {
	issues, err := Detect(source.FromLines("only,a,header"))
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = Detect(source.NewDocument("empty.csv", ""))
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Detect(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestDetectAscendingOrderAndTrimmedContent(t *testing.T) {
	doc := source.FromLines(
		"id,customer,product,price",
		`1001,John,Laptop,"$1,299.99"`,
		`1002,Jane,Laptop Pro 15",899`,
		"  1003,Bob,Mouse  ",
		"1004,Ann,Desk,$1,299.99",
		"1005,Eve,Chair,45",
	)
	issues, err := Detect(doc)
	require.NoError(t, err)

	want := []diag.Issue{
		{Line: 3, Content: `1002,Jane,Laptop Pro 15",899`, Diagnosis: diag.UnbalancedQuotes(), Severity: diag.SevError},
		{Line: 4, Content: "1003,Bob,Mouse", Diagnosis: diag.FieldCountMismatch(3, 4), Severity: diag.SevError},
		{Line: 5, Content: "1004,Ann,Desk,$1,299.99", Diagnosis: diag.FieldCountMismatch(5, 4), Severity: diag.SevError},
	}
	if diff := cmp.Diff(want, issues, ignoreFixes); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(issues); i++ {
		assert.Less(t, issues[i-1].Line, issues[i].Line)
	}
}

func TestDetectAttachesSuggestions(t *testing.T) {
	issues, err := Detect(source.FromLines("a,b,c", "1,2"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, []diag.Fix{{Title: "pad with 1 empty field", Replacement: "1,2,"}}, issues[0].Fixes)

	bare, err := New(nil, Options{NoSuggestions: true}).Detect(source.FromLines("a,b,c", "1,2"))
	require.NoError(t, err)
	assert.Empty(t, bare[0].Fixes)
}

func TestDetectIsIdempotent(t *testing.T) {
	doc := source.FromLines("a,b", "1", `"x`, "1,2", "1,2,3")
	before := doc.Join()

	first, err := Detect(doc)
	require.NoError(t, err)
	second, err := Detect(doc)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, before, doc.Join())
}

func TestRunMaxIssues(t *testing.T) {
	lines := []string{"a,b"}
	for i := 0; i < 10; i++ {
		lines = append(lines, "1")
	}
	res, err := New(zap.NewNop(), Options{MaxIssues: 3}).Run(source.FromLines(lines...))
	require.NoError(t, err)

	assert.Len(t, res.Issues, 3)
	assert.Equal(t, 7, res.Dropped)
	assert.Equal(t, 2, res.Expected)
	assert.Equal(t, 11, res.Lines)
	assert.Equal(t, []int{2, 3, 4}, []int{res.Issues[0].Line, res.Issues[1].Line, res.Issues[2].Line})
}

func TestScanWarnsOnUnbalancedHeader(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("warn", "console", &buf)
	require.NoError(t, err)

	_, err = New(log, Options{}).Detect(source.FromLines(`a,"b`, "1,2"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "header has unbalanced quotes"))
}
