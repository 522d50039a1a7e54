package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"csvmend/internal/editor"
)

// Choose shows a numbered menu with an implicit "0. cancel" entry and
// returns the 0-based indices picked. With multi, a comma-separated list is
// accepted; duplicates collapse and the first-seen order is kept.
func (p *Prompter) Choose(title string, options []string, multi bool) ([]int, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("menu %q has no options", title)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, opt)
	}
	b.WriteString("  0. cancel\n")
	fmt.Fprint(p.out, b.String())

	question := "Select an option: "
	hint := fmt.Sprintf("Please enter a number between 0 and %d.", len(options))
	if multi {
		question = "Select options (comma-separated): "
		hint = fmt.Sprintf("Please enter numbers between 1 and %d separated by commas, or 0 to cancel.", len(options))
	}

	var picked []int
	cancelled := false
	err := p.ask(question, func(answer string) (bool, error) {
		sel, cancel, ok := parseSelection(answer, len(options), multi)
		if cancel {
			cancelled = true
			return true, nil
		}
		picked = sel
		return ok, nil
	}, hint)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, ErrCancelled
	}
	return picked, nil
}

// ChooseOne is Choose for a single answer.
func (p *Prompter) ChooseOne(title string, options []string) (int, error) {
	sel, err := p.Choose(title, options, false)
	if err != nil {
		return -1, err
	}
	return sel[0], nil
}

func parseSelection(answer string, n int, multi bool) (sel []int, cancel, ok bool) {
	s := strings.TrimSpace(answer)
	if s == "" {
		return nil, false, false
	}
	if s == "0" || editor.IsCancelWord(s) {
		return nil, true, true
	}

	parts := []string{s}
	if multi {
		parts = strings.Split(s, ",")
	}
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || num < 1 || num > n {
			return nil, false, false
		}
		idx := num - 1
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		sel = append(sel, idx)
	}
	return sel, false, true
}
