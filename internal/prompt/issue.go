package prompt

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"csvmend/internal/diag"
)

// Action is what the user chose to do about an issue.
type Action uint8

const (
	ActionSkip Action = iota
	ActionApplyFix
	ActionEdit
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionApplyFix:
		return "apply_fix"
	case ActionEdit:
		return "edit"
	case ActionCancel:
		return "cancel"
	}
	return "skip"
}

// Resolution is the answer to the issue-and-fix prompt. FixIndex is set for
// ActionApplyFix, Content for ActionEdit.
type Resolution struct {
	Action   Action
	FixIndex int
	Content  string
}

func ApplyFix(i int) Resolution { return Resolution{Action: ActionApplyFix, FixIndex: i} }
func Edit(content string) Resolution { return Resolution{Action: ActionEdit, Content: content} }
func Skip() Resolution { return Resolution{Action: ActionSkip} }
func Cancel() Resolution { return Resolution{Action: ActionCancel} }

var (
	lineLabel = color.New(color.FgYellow, color.Bold)
	kindLabel = color.New(color.FgRed)
)

// ShowIssue prints the line number, diagnosis and content of is.
func (p *Prompter) ShowIssue(is diag.Issue) {
	fmt.Fprintln(p.out)
	lineLabel.Fprintf(p.out, "Line %d", is.Line)
	fmt.Fprint(p.out, ": ")
	kindLabel.Fprintln(p.out, is.Diagnosis.String())
	fmt.Fprintf(p.out, "  %s\n", is.Content)
}

// ResolveIssue shows is and offers its suggested fixes, "edit manually" when
// allowEdit is set, and "skip". Menu or edit cancellation yields Cancel; a
// kept (unchanged) edit yields Skip.
func (p *Prompter) ResolveIssue(is diag.Issue, allowEdit bool) (Resolution, error) {
	p.ShowIssue(is)

	options := make([]string, 0, len(is.Fixes)+2)
	for _, f := range is.Fixes {
		options = append(options, fmt.Sprintf("%s: %s", f.Title, f.Replacement))
	}
	editIdx := -1
	if allowEdit {
		editIdx = len(options)
		options = append(options, "edit manually")
	}
	skipIdx := len(options)
	options = append(options, "skip")

	choice, err := p.ChooseOne("How do you want to fix it?", options)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return Cancel(), nil
		}
		return Resolution{}, err
	}

	switch {
	case choice < len(is.Fixes):
		return ApplyFix(choice), nil
	case choice == editIdx:
		text, err := p.EditLine(is.Line, is.Content)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return Cancel(), nil
			}
			return Resolution{}, err
		}
		if text == is.Content {
			return Skip(), nil
		}
		return Edit(text), nil
	case choice == skipIdx:
		return Skip(), nil
	}
	return Resolution{}, fmt.Errorf("unexpected menu choice %d", choice)
}
