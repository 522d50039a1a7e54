package repair

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"csvmend/internal/detect"
	"csvmend/internal/diag"
	"csvmend/internal/prompt"
	"csvmend/internal/source"
)

func init() {
	color.NoColor = true
}

// scripted runs a real Prompter over canned input.
func scripted(input string) *prompt.Prompter {
	var out bytes.Buffer
	return prompt.New(bufio.NewReader(strings.NewReader(input)), &out)
}

func sampleDoc() *source.Document {
	return source.NewDocument("orders.csv", "id,name,price\r\n1,a\r\n2,b,3\r\n3,\"c,4\r\n")
}

func detectAll(t *testing.T, doc *source.Document) []diag.Issue {
	t.Helper()
	issues, err := detect.Detect(doc)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	return issues
}

func TestRunAllSkippedReturnsIdenticalDocument(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	out := NewSession(scripted("n\nn\n"), zap.NewNop()).Run(doc, issues)

	require.NoError(t, out.Err)
	assert.Equal(t, StatusRepaired, out.Status)
	require.NotNil(t, out.Document)
	assert.True(t, doc.Equal(out.Document))
	assert.Equal(t, 2, out.Skipped())
	assert.Equal(t, 0, out.Fixed())
}

func TestRunAbortOnFirstIssue(t *testing.T) {
	doc := sampleDoc()
	before := doc.Join()
	issues := detectAll(t, doc)

	// yes to fix, cancel the edit, yes to abort
	out := NewSession(scripted("y\ncancel\ny\n"), zap.NewNop()).Run(doc, issues)

	assert.Equal(t, StatusCancelled, out.Status)
	assert.Nil(t, out.Document)
	assert.NoError(t, out.Err)
	assert.Equal(t, []Decision{Aborted(2)}, out.Decisions)
	assert.Equal(t, before, doc.Join())
}

func TestRunAbortAfterFixDiscardsEverything(t *testing.T) {
	doc := sampleDoc()
	before := doc.Join()
	issues := detectAll(t, doc)

	out := NewSession(scripted("y\n1,a,\ny\ncancel\ny\n"), zap.NewNop()).Run(doc, issues)

	assert.Equal(t, StatusCancelled, out.Status)
	assert.Nil(t, out.Document)
	assert.Equal(t, []Decision{Fixed(2, "1,a,"), Aborted(4)}, out.Decisions)
	assert.Equal(t, before, doc.Join())
}

func TestRunEditCancelThenContinue(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	// line 2: cancel edit, decline abort (skip); line 4: fix
	out := NewSession(scripted("y\ncancel\nn\n\n3,\"c\",4\n"), zap.NewNop()).Run(doc, issues)

	require.NoError(t, out.Err)
	assert.Equal(t, StatusRepaired, out.Status)
	assert.Equal(t, []Decision{Skipped(2), Fixed(4, `3,"c",4`)}, out.Decisions)
	assert.Equal(t, "id,name,price\r\n1,a\r\n2,b,3\r\n3,\"c\",4\r\n", out.Document.Join())
}

func TestRunKeptEditCountsAsSkip(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	out := NewSession(scripted("y\n\nn\n"), zap.NewNop()).Run(doc, issues)
	require.NoError(t, out.Err)
	assert.Equal(t, []Decision{Skipped(2), Skipped(4)}, out.Decisions)
	assert.True(t, doc.Equal(out.Document))
}

func TestRunPresentsIssuesInLineOrder(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)
	reversed := []diag.Issue{issues[1], issues[0]}

	out := NewSession(scripted("n\nn\n"), zap.NewNop()).Run(doc, reversed)
	require.Len(t, out.Decisions, 2)
	assert.Equal(t, 2, out.Decisions[0].Line)
	assert.Equal(t, 4, out.Decisions[1].Line)
}

func TestRunNoIssuesIsClean(t *testing.T) {
	doc := source.FromLines("a,b", "1,2")
	out := NewSession(scripted(""), nil).Run(doc, nil)
	assert.Equal(t, StatusClean, out.Status)
	assert.True(t, doc.Equal(out.Document))
	assert.NotSame(t, doc, out.Document)
}

func TestRunInputEndsIsFailure(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	out := NewSession(scripted("n\n"), zap.NewNop()).Run(doc, issues)
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, io.EOF)
	assert.Nil(t, out.Document)
}

func TestRunRejectsHeaderIssue(t *testing.T) {
	doc := source.FromLines("a,b", "1")
	out := NewSession(scripted(""), nil).Run(doc, []diag.Issue{{Line: 1}})
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrInvalidIssue)

	out = NewSession(scripted(""), nil).Run(doc, []diag.Issue{{Line: 9}})
	assert.ErrorIs(t, out.Err, ErrInvalidIssue)
}

func TestRunStateTransitions(t *testing.T) {
	doc := source.FromLines("a,b", "1", "2")
	issues, err := detect.Detect(doc)
	require.NoError(t, err)

	var states []State
	s := NewSession(scripted("n\ny\n1,x\n"), nil, WithStateHook(func(st State) { states = append(states, st) }))
	out := s.Run(doc, issues)
	require.NoError(t, out.Err)

	want := []State{
		StatePresenting, StateDeciding, StateSkipping,
		StatePresenting, StateDeciding, StateApplying,
		StateDone,
	}
	assert.Equal(t, want, states)
	assert.Equal(t, StateDone, s.State())
}

func TestRunCarriesRunID(t *testing.T) {
	out := NewSession(scripted(""), nil, WithRunID(func() string { return "run-1" })).
		Run(source.FromLines("a"), nil)
	assert.Equal(t, "run-1", out.RunID)

	generated := NewSession(scripted(""), nil).Run(source.FromLines("a"), nil)
	assert.Len(t, generated.RunID, 36)
}

func TestRunMenuStrategy(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	// line 2: apply "pad with 1 empty field"; line 4: remove stray quotes
	out := NewSession(scripted("1\n2\n"), zap.NewNop(), WithStrategy(StrategyMenu)).Run(doc, issues)
	require.NoError(t, out.Err)

	require.Len(t, out.Decisions, 2)
	assert.Equal(t, "pad with 1 empty field", out.Decisions[0].Fix)
	assert.Equal(t, "remove stray quotes", out.Decisions[1].Fix)
	assert.Equal(t, "id,name,price\r\n1,a,\r\n2,b,3\r\n3,c,4\r\n", out.Document.Join())

	again, err := detect.Detect(out.Document)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRunMenuCancelAsksAbort(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	out := NewSession(scripted("0\nn\nq\ny\n"), zap.NewNop(), WithStrategy(StrategyMenu)).Run(doc, issues)
	assert.Equal(t, StatusCancelled, out.Status)
	assert.Equal(t, []Decision{Skipped(2), Aborted(4)}, out.Decisions)
}

func TestRunMenuEditAndSkip(t *testing.T) {
	doc := sampleDoc()
	issues := detectAll(t, doc)

	// line 2 has 1 fix: [fix, edit, skip] -> edit; line 4 has 2 fixes: [fix, fix, edit, skip] -> skip
	out := NewSession(scripted("2\n1,a,0\n4\n"), zap.NewNop(), WithStrategy(StrategyMenu)).Run(doc, issues)
	require.NoError(t, out.Err)
	assert.Equal(t, []Decision{Fixed(2, "1,a,0"), Skipped(4)}, out.Decisions)
}

func TestReadStrategy(t *testing.T) {
	st, err := ReadStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyConfirm, st)
	st, err = ReadStrategy("MENU")
	require.NoError(t, err)
	assert.Equal(t, StrategyMenu, st)
	_, err = ReadStrategy("auto")
	assert.Error(t, err)
}
