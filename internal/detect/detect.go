// Package detect scans a document for rows whose structure disagrees with the
// header.
//
// The header's field count is the expected shape for the whole run. Every
// later non-blank line is checked for quote balance first; only balanced
// lines are field-counted. Issues come out in ascending line order and the
// scan never mutates the document, so running it twice gives the same result.
package detect

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"csvmend/internal/diag"
	"csvmend/internal/fix"
	"csvmend/internal/shape"
	"csvmend/internal/source"
)

// ErrEmptyDocument is returned for a document with no lines at all. It is an
// input error, not the same as a document with no issues.
var ErrEmptyDocument = errors.New("empty document")

// Options tunes a Detector.
type Options struct {
	// MaxIssues caps the number of issues kept; zero or less keeps all.
	MaxIssues int
	// NoSuggestions disables fix suggestions on issues.
	NoSuggestions bool
}

// Result is the outcome of one scan.
type Result struct {
	Issues []diag.Issue
	// Expected is the header's field count.
	Expected int
	// Lines is the number of lines scanned, header included.
	Lines int
	// Dropped counts issues beyond MaxIssues.
	Dropped int
}

// Detector runs structural checks over documents.
type Detector struct {
	log  *zap.Logger
	opts Options
}

// New returns a Detector. A nil logger is replaced by a no-op logger.
func New(log *zap.Logger, opts Options) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{log: log.Named("detect"), opts: opts}
}

// Detect runs a default Detector over doc.
func Detect(doc *source.Document) ([]diag.Issue, error) {
	return New(nil, Options{}).Detect(doc)
}

// Detect returns the issues found in doc in ascending line order.
func (d *Detector) Detect(doc *source.Document) ([]diag.Issue, error) {
	res, err := d.Run(doc)
	if err != nil {
		return nil, err
	}
	return res.Issues, nil
}

// Run scans doc and returns the issues with scan metadata.
func (d *Detector) Run(doc *source.Document) (*Result, error) {
	if doc == nil || doc.Len() == 0 {
		return nil, ErrEmptyDocument
	}
	bag := diag.NewBag(d.opts.MaxIssues)
	expected, err := d.Scan(doc, diag.BagReporter{Bag: bag})
	if err != nil {
		return nil, err
	}
	res := &Result{
		Issues:   bag.Items(),
		Expected: expected,
		Lines:    doc.Len(),
		Dropped:  bag.Dropped(),
	}
	d.log.Info("scan finished",
		zap.String("path", doc.Path()),
		zap.Int("lines", res.Lines),
		zap.Int("expected_fields", expected),
		zap.Int("issues", len(res.Issues)),
		zap.Int("dropped", res.Dropped),
	)
	return res, nil
}

// Scan emits one issue per defective line to r and returns the expected
// field count taken from the header.
func (d *Detector) Scan(doc *source.Document, r diag.Reporter) (int, error) {
	if doc == nil || doc.Len() == 0 {
		return 0, ErrEmptyDocument
	}
	header, err := doc.Line(1)
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	expected := shape.FieldCount(header)
	if shape.Unbalanced(header) {
		d.log.Warn("header has unbalanced quotes; field counts may be misleading",
			zap.String("path", doc.Path()))
	}
	d.log.Debug("expected shape", zap.Int("fields", expected))

	for n := 2; n <= doc.Len(); n++ {
		line, err := doc.Line(n)
		if err != nil {
			return expected, err
		}
		content := strings.TrimSpace(line)
		if content == "" {
			continue
		}

		var dg diag.Diagnosis
		switch {
		case shape.Unbalanced(line):
			dg = diag.UnbalancedQuotes()
		default:
			found := shape.FieldCount(line)
			if found == expected {
				continue
			}
			dg = diag.FieldCountMismatch(found, expected)
		}

		b := diag.ReportError(r, n, content, dg)
		if !d.opts.NoSuggestions {
			b.WithFixes(fix.Suggest(content, dg)...)
		}
		b.Emit()
		d.log.Debug("issue", zap.Int("line", n), zap.Stringer("diagnosis", dg))
	}
	return expected, nil
}
