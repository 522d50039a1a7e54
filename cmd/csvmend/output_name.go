package main

import (
	"path/filepath"
	"strings"
	"time"

	"csvmend/internal/config"
)

const outputTimestamp = "20060102_150405"

// defaultOutputPath names the repaired copy <dir>/<stem><suffix>_<timestamp><ext>.
// An empty dir puts it next to the input.
func defaultOutputPath(inputPath string, out config.OutputConfig, now time.Time) string {
	dir := out.Dir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	suffix := out.Suffix
	if suffix == "" {
		suffix = config.DefaultSuffix
	}
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".csv"
	}
	return filepath.Join(dir, stem+suffix+"_"+now.Format(outputTimestamp)+ext)
}
