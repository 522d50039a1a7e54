package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmend/internal/detect"
	"csvmend/internal/diag"
	"csvmend/internal/driver"
	"csvmend/internal/observ"
	"csvmend/internal/source"
)

func sampleResults() []driver.FileResult {
	short := diag.Issue{
		Line: 3, Content: "1,2", Diagnosis: diag.FieldCountMismatch(2, 3), Severity: diag.SevError,
	}.WithFix("pad with 1 empty field", "1,2,")
	quote := diag.Issue{Line: 5, Content: `4,"x,6`, Diagnosis: diag.UnbalancedQuotes(), Severity: diag.SevError}
	return []driver.FileResult{
		{
			Path:     "data/orders.csv",
			Encoding: "utf-8",
			Result:   &detect.Result{Issues: []diag.Issue{short, quote}, Expected: 3, Lines: 6},
			Timing:   observ.Report{TotalMS: 1.5, Phases: []observ.PhaseReport{{Name: "load", DurationMS: 1.5}}},
		},
		{Path: "data/clean.csv", Encoding: "latin-1", Result: &detect.Result{Expected: 2, Lines: 4}},
		{Path: "data/missing.csv", Err: fmt.Errorf("data/missing.csv: %w", source.ErrNotRegular)},
		{Path: "data/empty.csv", Err: fmt.Errorf("data/empty.csv: %w", detect.ErrEmptyDocument)},
	}
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleResults(), PrettyOpts{ShowFixes: true})
	out := buf.String()

	assert.Contains(t, out, "data/orders.csv (utf-8, 3 fields, 6 lines)\n")
	assert.Contains(t, out, "  line 3: error CSV0002 expected 3 fields, found 2\n    | 1,2\n    fix: pad with 1 empty field -> 1,2,\n")
	assert.Contains(t, out, "  line 5: error CSV0001 unbalanced quotes\n")
	assert.Contains(t, out, "data/clean.csv: no issues\n")
	assert.Contains(t, out, "data/missing.csv: error IO4001 ")
	assert.Contains(t, out, "data/empty.csv: error IO4002 ")
	assert.True(t, strings.HasSuffix(out, "4 files, 2 issues, 2 failed\n"), out)
	assert.NotContains(t, out, "\x1b[")
}

func TestPrettyColorAndWidth(t *testing.T) {
	long := strings.Repeat("x", 50)
	results := []driver.FileResult{{
		Path:   "a.csv",
		Result: &detect.Result{Expected: 1, Lines: 2, Issues: []diag.Issue{{Line: 2, Content: long, Diagnosis: diag.UnbalancedQuotes()}}},
	}}
	var buf bytes.Buffer
	Pretty(&buf, results, PrettyOpts{Color: true, Width: 10})
	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "xxxxxxx...")
	assert.NotContains(t, out, long)
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, sampleResults(), PrettyOpts{}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "error CSV0002 data/orders.csv:3 expected 3 fields, found 2", lines[0])
	assert.Equal(t, "error CSV0001 data/orders.csv:5 unbalanced quotes", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "error IO4001 data/missing.csv "))
	assert.True(t, strings.HasPrefix(lines[3], "error IO4002 data/empty.csv "))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResults(), JSONOpts{IncludeFixes: true, IncludeTimings: true}))

	var out Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, 2, out.Failed)
	require.Len(t, out.Files, 4)

	orders := out.Files[0]
	require.Len(t, orders.Issues, 2)
	assert.Equal(t, IssueJSON{
		Line: 3, Severity: "ERROR", Code: "CSV0002", Kind: "field_count_mismatch",
		Message: "expected 3 fields, found 2", Content: "1,2", Found: 2, Expected: 3,
		Fixes: []FixJSON{{Title: "pad with 1 empty field", Replacement: "1,2,"}},
	}, orders.Issues[0])
	require.NotNil(t, orders.Timings)
	assert.InDelta(t, 1.5, orders.Timings.TotalMS, 1e-9)

	assert.NotNil(t, out.Files[1].Issues)
	assert.Empty(t, out.Files[1].Issues)
	require.NotNil(t, out.Files[2].Error)
	assert.Equal(t, "IO4001", out.Files[2].Error.Code)
	assert.Equal(t, "IO4002", out.Files[3].Error.Code)
}

func TestJSONMaxAndNoFixes(t *testing.T) {
	out := BuildOutput(sampleResults()[:1], JSONOpts{Max: 1})
	require.Len(t, out.Files[0].Issues, 1)
	assert.Equal(t, 1, out.Files[0].Dropped)
	assert.Nil(t, out.Files[0].Issues[0].Fixes)
	assert.Nil(t, out.Files[0].Timings)
}

func TestMsgpackMatchesJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := JSONOpts{IncludeFixes: true}
	require.NoError(t, Msgpack(&buf, sampleResults(), opts))
	got, err := DecodeMsgpack(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(BuildOutput(sampleResults(), opts), got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("msgpack output differs (-json +msgpack):\n%s", diff)
	}
}

func TestParseFormatAndPathMode(t *testing.T) {
	for _, s := range []string{"pretty", "short", "json", "msgpack"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("sarif")
	assert.Error(t, err)

	m, err := ParsePathMode("basename")
	require.NoError(t, err)
	assert.Equal(t, PathModeBasename, m)
	assert.Equal(t, "basename", m.String())
	_, err = ParsePathMode("weird")
	assert.Error(t, err)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, diag.IOEmptyDocument, ErrorCode(detect.ErrEmptyDocument))
	assert.Equal(t, diag.IOLoadFileError, ErrorCode(errors.New("boom")))
}
