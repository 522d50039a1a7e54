package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLineOutOfRange is returned for a line number outside the document.
	ErrLineOutOfRange = errors.New("line out of range")
	// ErrMultilineContent is returned when replacement text would split a line.
	ErrMultilineContent = errors.New("replacement contains a line break")
)

// Document is an ordered sequence of raw text lines. Line numbers are 1-based
// at the API; line 1 is the header. Each line remembers its own terminator
// ("\n", "\r\n", or "" for a final line without newline). Lines can be
// replaced in place, never inserted, removed or reordered.
type Document struct {
	path     string
	encoding string
	flags    Flags
	lines    []string
	terms    []string
}

// NewDocument splits text into lines, keeping terminators.
func NewDocument(path, text string) *Document {
	lines, terms := splitLines(text)
	return &Document{
		path:     normalizePath(path),
		encoding: DefaultEncoding,
		lines:    lines,
		terms:    terms,
	}
}

// FromLines builds a virtual document whose lines all end with "\n".
func FromLines(lines ...string) *Document {
	d := &Document{
		path:     "<memory>",
		encoding: DefaultEncoding,
		flags:    FileVirtual,
		lines:    make([]string, len(lines)),
		terms:    make([]string, len(lines)),
	}
	copy(d.lines, lines)
	for i := range d.terms {
		d.terms[i] = "\n"
	}
	return d
}

func (d *Document) Path() string     { return d.path }
func (d *Document) Encoding() string { return d.encoding }
func (d *Document) Flags() Flags     { return d.flags }

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns line n (1-based) without its terminator.
func (d *Document) Line(n int) (string, error) {
	if n < 1 || n > len(d.lines) {
		return "", fmt.Errorf("line %d of %d: %w", n, len(d.lines), ErrLineOutOfRange)
	}
	return d.lines[n-1], nil
}

// Terminator returns the line ending of line n (1-based).
func (d *Document) Terminator(n int) (string, error) {
	if n < 1 || n > len(d.terms) {
		return "", fmt.Errorf("line %d of %d: %w", n, len(d.terms), ErrLineOutOfRange)
	}
	return d.terms[n-1], nil
}

// Lines returns a copy of all lines without terminators.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Replace overwrites line n (1-based). The line keeps its terminator.
func (d *Document) Replace(n int, content string) error {
	if n < 1 || n > len(d.lines) {
		return fmt.Errorf("replace line %d of %d: %w", n, len(d.lines), ErrLineOutOfRange)
	}
	if strings.ContainsAny(content, "\r\n") {
		return fmt.Errorf("replace line %d: %w", n, ErrMultilineContent)
	}
	d.lines[n-1] = content
	return nil
}

// Clone returns a deep copy that shares nothing mutable with d.
func (d *Document) Clone() *Document {
	c := *d
	c.lines = make([]string, len(d.lines))
	copy(c.lines, d.lines)
	c.terms = make([]string, len(d.terms))
	copy(c.terms, d.terms)
	return &c
}

// Join reassembles the document text, terminators included.
func (d *Document) Join() string {
	size := 0
	for i := range d.lines {
		size += len(d.lines[i]) + len(d.terms[i])
	}
	var b strings.Builder
	b.Grow(size)
	for i := range d.lines {
		b.WriteString(d.lines[i])
		b.WriteString(d.terms[i])
	}
	return b.String()
}

// Hash is the SHA-256 of Join.
func (d *Document) Hash() [32]byte {
	return sha256.Sum256([]byte(d.Join()))
}

// Equal reports whether both documents have the same lines and terminators.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.lines) != len(other.lines) {
		return false
	}
	for i := range d.lines {
		if d.lines[i] != other.lines[i] || d.terms[i] != other.terms[i] {
			return false
		}
	}
	return true
}
