// Package editor provides single-line text editing for the repair workflow.
//
// Two variants satisfy Editor with the same contract. Prefilling opens a
// terminal input field with the current text already in it; Plain prints the
// current text and reads a replacement line. For both, an empty answer keeps
// the original text, and cancellation is reported as ErrCancelled. Probe
// picks one once at startup.
package editor

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrCancelled is returned when the user backs out of an edit.
var ErrCancelled = errors.New("edit cancelled")

// Editor edits one line of text.
type Editor interface {
	// Edit shows prompt and returns the edited text, initial when the user
	// keeps it, or ErrCancelled.
	Edit(prompt, initial string) (string, error)
}

// Mode selects the editor variant.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeTUI   Mode = "tui"
	ModePlain Mode = "plain"
)

// ReadMode parses a mode name.
func ReadMode(value string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "tui", "on", "prefill":
		return ModeTUI, nil
	case "plain", "off":
		return ModePlain, nil
	default:
		return "", fmt.Errorf("invalid editor mode %q (expected auto|tui|plain)", value)
	}
}

// cancelWords end an edit in the plain editor.
var cancelWords = map[string]struct{}{
	"cancel": {},
	"c":      {},
	"q":      {},
	"quit":   {},
}

// IsCancelWord reports whether s, trimmed and case-folded, asks to cancel.
func IsCancelWord(s string) bool {
	_, ok := cancelWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Probe chooses an editor. In auto mode the prefilling editor is used only
// when both in and out are terminals; otherwise the plain editor reads from
// shared, which must be the same reader the caller uses for other prompts.
func Probe(mode Mode, in, out *os.File, shared *bufio.Reader) Editor {
	plain := NewPlain(shared, out)
	switch mode {
	case ModePlain:
		return plain
	case ModeTUI:
		return NewPrefilling(in, out, plain)
	}
	if isTerminal(in) && isTerminal(out) {
		return NewPrefilling(in, out, plain)
	}
	return plain
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
