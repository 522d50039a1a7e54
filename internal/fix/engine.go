package fix

import (
	"errors"
	"fmt"
	"strings"

	"csvmend/internal/diag"
	"csvmend/internal/source"
)

var (
	// ErrNoFixes is returned when the issue carries no suggestion to apply.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrFixIndex is returned for a suggestion index outside the issue's list.
	ErrFixIndex = errors.New("fix index out of range")
	// ErrStaleLine is returned when the line no longer matches the content
	// the issue was detected on.
	ErrStaleLine = errors.New("line changed since detection")
)

// AppliedFix records a successfully applied suggestion.
type AppliedFix struct {
	Line   int
	Title  string
	Code   diag.Code
	Before string
	After  string
}

// Apply replaces the issue's line in doc with suggestion index of is.Fixes.
// The current line, trimmed, must still equal is.Content.
func Apply(doc *source.Document, is diag.Issue, index int) (*AppliedFix, error) {
	if doc == nil {
		return nil, fmt.Errorf("fix: document is nil")
	}
	if len(is.Fixes) == 0 {
		return nil, fmt.Errorf("line %d: %w", is.Line, ErrNoFixes)
	}
	if index < 0 || index >= len(is.Fixes) {
		return nil, fmt.Errorf("line %d: fix %d of %d: %w", is.Line, index, len(is.Fixes), ErrFixIndex)
	}
	current, err := doc.Line(is.Line)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(current) != is.Content {
		return nil, fmt.Errorf("line %d: %w", is.Line, ErrStaleLine)
	}

	f := is.Fixes[index]
	if err := doc.Replace(is.Line, f.Replacement); err != nil {
		return nil, err
	}
	return &AppliedFix{
		Line:   is.Line,
		Title:  f.Title,
		Code:   is.Code(),
		Before: current,
		After:  f.Replacement,
	}, nil
}
