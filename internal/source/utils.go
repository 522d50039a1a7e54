package source

import (
	"path/filepath"
	"strings"
)

const bom = "\uFEFF"

func removeBOM(text string) (string, bool) {
	if strings.HasPrefix(text, bom) {
		return text[len(bom):], true
	}
	return text, false
}

// splitLines cuts text at every \n. A \r directly before the \n belongs to
// the terminator; a lone \r is content. A trailing newline does not start an
// extra empty line.
func splitLines(text string) (lines, terms []string) {
	if text == "" {
		return nil, nil
	}
	n := strings.Count(text, "\n") + 1
	lines = make([]string, 0, n)
	terms = make([]string, 0, n)
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			terms = append(terms, "")
			break
		}
		line, term := text[:i], "\n"
		if strings.HasSuffix(line, "\r") {
			line, term = line[:len(line)-1], "\r\n"
		}
		lines = append(lines, line)
		terms = append(terms, term)
		text = text[i+1:]
	}
	return lines, terms
}

func normalizePath(p string) string {
	if p == "" || p == "-" || strings.HasPrefix(p, "<") {
		return p
	}
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath returns path relative to baseDir, or the absolute path when
// path lies outside baseDir.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return normalizePath(abs), nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// FormatPath renders path according to mode: "absolute", "relative",
// "basename" or "auto". Unknown modes and virtual paths return path as-is.
func FormatPath(path, mode, baseDir string) string {
	if path == "-" || strings.HasPrefix(path, "<") {
		return path
	}
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(path); err == nil {
			return normalizePath(abs)
		}
		return path

	case "relative":
		if baseDir == "" {
			baseDir = "."
		}
		if rel, err := RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path

	case "basename":
		return filepath.Base(path)

	case "auto":
		// короткие и относительные пути как есть, иначе basename
		if len(path) < 40 || !filepath.IsAbs(path) {
			return path
		}
		return filepath.Base(path)

	default:
		return path
	}
}
