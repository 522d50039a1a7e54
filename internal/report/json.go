package report

import (
	"encoding/json"
	"io"

	"csvmend/internal/driver"
	"csvmend/internal/observ"
)

// FixJSON is one suggested fix.
type FixJSON struct {
	Title       string `json:"title"`
	Replacement string `json:"replacement"`
}

// IssueJSON is one issue.
type IssueJSON struct {
	Line     int       `json:"line"`
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	Content  string    `json:"content"`
	Found    int       `json:"found,omitempty"`
	Expected int       `json:"expected,omitempty"`
	Fixes    []FixJSON `json:"fixes,omitempty"`
}

// ErrorJSON describes why a file could not be scanned.
type ErrorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FileJSON is the result for one file.
type FileJSON struct {
	Path     string         `json:"path"`
	Encoding string         `json:"encoding,omitempty"`
	Expected int            `json:"expected_fields,omitempty"`
	Lines    int            `json:"lines,omitempty"`
	Cached   bool           `json:"cached,omitempty"`
	Issues   []IssueJSON    `json:"issues"`
	Dropped  int            `json:"dropped,omitempty"`
	Error    *ErrorJSON     `json:"error,omitempty"`
	Timings  *observ.Report `json:"timings,omitempty"`
}

// Output is the root of JSON and msgpack output.
type Output struct {
	Files  []FileJSON `json:"files"`
	Count  int        `json:"count"`
	Failed int        `json:"failed"`
}

// BuildOutput formats results without serialising them.
func BuildOutput(results []driver.FileResult, opts JSONOpts) Output {
	out := Output{Files: make([]FileJSON, 0, len(results))}
	for _, res := range results {
		file := FileJSON{
			Path:     displayPath(res.Path, opts.PathMode, opts.BaseDir),
			Encoding: res.Encoding,
			Cached:   res.Cached,
			Issues:   []IssueJSON{},
		}
		if opts.IncludeTimings && len(res.Timing.Phases) > 0 {
			timing := res.Timing
			file.Timings = &timing
		}
		if res.Err != nil {
			file.Error = &ErrorJSON{Code: ErrorCode(res.Err).ID(), Message: res.Err.Error()}
			out.Failed++
			out.Files = append(out.Files, file)
			continue
		}

		file.Expected = res.Result.Expected
		file.Lines = res.Result.Lines
		file.Dropped = res.Result.Dropped

		issues := res.Issues()
		maxItems := len(issues)
		if opts.Max > 0 && opts.Max < maxItems {
			file.Dropped += maxItems - opts.Max
			maxItems = opts.Max
		}
		for i := 0; i < maxItems; i++ {
			is := issues[i]
			issueJSON := IssueJSON{
				Line:     is.Line,
				Severity: is.Severity.String(),
				Code:     is.Code().ID(),
				Kind:     is.Diagnosis.Kind.String(),
				Message:  is.Diagnosis.String(),
				Content:  is.Content,
				Found:    is.Diagnosis.Found,
				Expected: is.Diagnosis.Expected,
			}
			if opts.IncludeFixes && len(is.Fixes) > 0 {
				issueJSON.Fixes = make([]FixJSON, len(is.Fixes))
				for j, f := range is.Fixes {
					issueJSON.Fixes[j] = FixJSON{Title: f.Title, Replacement: f.Replacement}
				}
			}
			file.Issues = append(file.Issues, issueJSON)
		}
		out.Count += len(file.Issues)
		out.Files = append(out.Files, file)
	}
	return out
}

// JSON writes results as indented JSON.
func JSON(w io.Writer, results []driver.FileResult, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(results, opts))
}
