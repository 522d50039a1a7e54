package diag

// Reporter is the minimal contract for receiving issues from a producer.
type Reporter interface {
	Report(is Issue)
}

// ReportBuilder accumulates issue details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	issue    Issue
	emitted  bool
}

// NewReportBuilder constructs a builder bound to r.
func NewReportBuilder(r Reporter, sev Severity, line int, content string, d Diagnosis) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		issue: Issue{
			Line:      line,
			Content:   content,
			Diagnosis: d,
			Severity:  sev,
		},
	}
}

// ReportError is a shortcut for SevError issues.
func ReportError(r Reporter, line int, content string, d Diagnosis) *ReportBuilder {
	return NewReportBuilder(r, SevError, line, content, d)
}

// WithFix appends a suggested replacement for the line.
func (b *ReportBuilder) WithFix(title, replacement string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.issue = b.issue.WithFix(title, replacement)
	return b
}

// WithFixes appends ready-made suggestions.
func (b *ReportBuilder) WithFixes(fixes ...Fix) *ReportBuilder {
	if b == nil {
		return nil
	}
	for _, f := range fixes {
		b.issue = b.issue.WithFix(f.Title, f.Replacement)
	}
	return b
}

// Emit sends the issue to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.issue)
	}
	b.emitted = true
}

// Issue returns the accumulated issue without emitting.
func (b *ReportBuilder) Issue() Issue {
	if b == nil {
		return Issue{}
	}
	return b.issue
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(is Issue) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(is)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Issue) {}
