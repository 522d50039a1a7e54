package repair

import (
	"fmt"
	"strings"

	"csvmend/internal/source"
)

// Status is how a session ended.
type Status uint8

const (
	// StatusClean means there was nothing to repair.
	StatusClean Status = iota
	// StatusRepaired means every issue was decided (fixed or skipped).
	StatusRepaired
	// StatusCancelled means the user aborted; no document is returned.
	StatusCancelled
	// StatusFailed means prompting failed; Err says why.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusRepaired:
		return "repaired"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a step of the per-issue state machine.
type State uint8

const (
	StateIdle State = iota
	StatePresenting
	StateDeciding
	StateApplying
	StateSkipping
	StateAborting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateDeciding:
		return "deciding"
	case StateApplying:
		return "applying"
	case StateSkipping:
		return "skipping"
	case StateAborting:
		return "aborting"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// DecisionKind is the per-issue result.
type DecisionKind uint8

const (
	DecisionSkipped DecisionKind = iota
	DecisionFixed
	DecisionAborted
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionFixed:
		return "fixed"
	case DecisionAborted:
		return "aborted"
	}
	return "skipped"
}

// Decision records what happened to one issue. Content is the new line for
// DecisionFixed; Fix names the applied suggestion when one was used.
type Decision struct {
	Line    int
	Kind    DecisionKind
	Content string
	Fix     string
}

func Fixed(line int, content string) Decision {
	return Decision{Line: line, Kind: DecisionFixed, Content: content}
}

func Skipped(line int) Decision {
	return Decision{Line: line, Kind: DecisionSkipped}
}

func Aborted(line int) Decision {
	return Decision{Line: line, Kind: DecisionAborted}
}

// Outcome is the result of Session.Run. Document is set only for
// StatusClean and StatusRepaired.
type Outcome struct {
	RunID     string
	Status    Status
	Document  *source.Document
	Decisions []Decision
	Err       error
}

// Fixed counts fixed issues.
func (o Outcome) Fixed() int {
	return o.count(DecisionFixed)
}

// Skipped counts skipped issues.
func (o Outcome) Skipped() int {
	return o.count(DecisionSkipped)
}

func (o Outcome) count(kind DecisionKind) int {
	n := 0
	for _, d := range o.Decisions {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Strategy selects how each issue is decided.
type Strategy string

const (
	// StrategyConfirm asks "fix this line?" then opens the editor.
	StrategyConfirm Strategy = "confirm"
	// StrategyMenu offers suggested fixes, manual edit and skip in one menu.
	StrategyMenu Strategy = "menu"
)

// ReadStrategy parses a strategy name.
func ReadStrategy(value string) (Strategy, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "confirm":
		return StrategyConfirm, nil
	case "menu":
		return StrategyMenu, nil
	default:
		return "", fmt.Errorf("invalid repair strategy %q (expected confirm|menu)", value)
	}
}
