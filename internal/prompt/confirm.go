package prompt

import (
	"errors"
	"fmt"
	"strings"

	"csvmend/internal/editor"
)

// Confirm asks a yes/no question. An empty answer takes def.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	suffix := " [y/N] "
	if def {
		suffix = " [Y/n] "
	}
	var answer bool
	err := p.ask(question+suffix, func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "":
			answer = def
		case "y", "yes":
			answer = true
		case "n", "no":
			answer = false
		default:
			return false, nil
		}
		return true, nil
	}, "Please answer y or n.")
	return answer, err
}

// EditText opens the editor with initial and returns the edited text, initial
// itself when kept, or ErrCancelled.
func (p *Prompter) EditText(prompt, initial string) (string, error) {
	text, err := p.editor.Edit(prompt, initial)
	if err != nil {
		if errors.Is(err, editor.ErrCancelled) {
			return "", ErrCancelled
		}
		return "", err
	}
	return text, nil
}

// EditLine edits the content of document line n.
func (p *Prompter) EditLine(n int, content string) (string, error) {
	return p.EditText(fmt.Sprintf("Edit line %d:", n), content)
}
