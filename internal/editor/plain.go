package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Plain shows the current text and reads a full replacement line.
type Plain struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlain returns a plain editor reading lines from in.
func NewPlain(in *bufio.Reader, out io.Writer) *Plain {
	return &Plain{in: in, out: out}
}

func (p *Plain) Edit(prompt, initial string) (string, error) {
	fmt.Fprintf(p.out, "%s\n  current: %s\n  new value (enter keeps it, 'cancel' aborts)> ", prompt, initial)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read edit: %w", err)
	}
	text := strings.TrimSpace(line)
	if text == "" {
		return initial, nil
	}
	if IsCancelWord(text) {
		return "", ErrCancelled
	}
	return text, nil
}
