// Package prompt implements the line-oriented questions the repair session
// asks: numbered menus, yes/no confirmations, text edits, and the combined
// issue-and-fix prompt.
//
// Invalid answers re-prompt in a loop. With MaxAttempts > 0 the loop gives up
// after that many invalid answers with ErrTooManyAttempts; otherwise it asks
// until it gets a valid answer or input ends. Cancellation is ErrCancelled.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"csvmend/internal/editor"
)

var (
	// ErrCancelled is returned when the user cancels a menu or an edit.
	ErrCancelled = errors.New("cancelled")
	// ErrTooManyAttempts is returned when MaxAttempts invalid answers were given.
	ErrTooManyAttempts = errors.New("too many invalid answers")
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	editor      editor.Editor
	maxAttempts int
	log         *zap.Logger
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithMaxAttempts bounds re-prompting; zero or less means unlimited.
func WithMaxAttempts(n int) Option {
	return func(p *Prompter) { p.maxAttempts = n }
}

// WithLogger attaches a logger for invalid-input events.
func WithLogger(log *zap.Logger) Option {
	return func(p *Prompter) {
		if log != nil {
			p.log = log
		}
	}
}

// WithEditor overrides the text editor. The default is a plain editor over
// the prompter's own reader.
func WithEditor(ed editor.Editor) Option {
	return func(p *Prompter) {
		if ed != nil {
			p.editor = ed
		}
	}
}

// New returns a Prompter. in is shared with the plain editor so no buffered
// input is lost between questions.
func New(in *bufio.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		in:  in,
		out: out,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.editor == nil {
		p.editor = editor.NewPlain(in, out)
	}
	p.log = p.log.Named("prompt")
	return p
}

// Reader exposes the shared input reader, for building editors over it.
func (p *Prompter) Reader() *bufio.Reader {
	return p.in
}

// readLine returns the next answer without its line ending. An answer cut
// short by end of input still counts; end of input with nothing read is an
// error.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ask loops until parse accepts an answer, the attempt budget runs out, or
// input fails. parse returns ok=false for an answer that should re-prompt.
func (p *Prompter) ask(question string, parse func(answer string) (ok bool, err error), hint string) error {
	for attempt := 1; ; attempt++ {
		fmt.Fprint(p.out, question)
		answer, err := p.readLine()
		if err != nil {
			return err
		}
		ok, err := parse(answer)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		p.log.Debug("invalid answer", zap.String("answer", answer), zap.Int("attempt", attempt))
		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return fmt.Errorf("%w (%d)", ErrTooManyAttempts, attempt)
		}
		fmt.Fprintln(p.out, hint)
	}
}
