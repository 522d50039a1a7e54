// Package report renders scan results for the terminal and for machines.
package report

import (
	"errors"
	"fmt"

	"csvmend/internal/detect"
	"csvmend/internal/diag"
	"csvmend/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or basename automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// ParsePathMode parses a --path-mode value.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q (want auto|absolute|relative|basename)", s)
}

// Format selects an output renderer.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatShort   Format = "short"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPretty, FormatShort, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (want pretty|short|json|msgpack)", s)
}

// PrettyOpts configures pretty-printing of results.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	Width    int // максимальная ширина строки с содержимым, 0 - не ограничено
	// ShowFixes lists suggested fixes under each issue.
	ShowFixes bool
}

// JSONOpts configures JSON and msgpack output of results.
type JSONOpts struct {
	PathMode       PathMode
	BaseDir        string
	Max            int // обрезка вывода на файл, не Bag
	IncludeFixes   bool
	IncludeTimings bool
}

func displayPath(path string, mode PathMode, baseDir string) string {
	return source.FormatPath(path, mode.String(), baseDir)
}

// ErrorCode maps a per-file failure to its diagnostic code.
func ErrorCode(err error) diag.Code {
	if errors.Is(err, detect.ErrEmptyDocument) {
		return diag.IOEmptyDocument
	}
	return diag.IOLoadFileError
}
