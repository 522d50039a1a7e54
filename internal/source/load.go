package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/dustin/go-humanize"
)

var (
	ErrNoPath     = errors.New("no file path provided")
	ErrNotRegular = errors.New("not a regular file")
	ErrNotCSV     = errors.New("file must have a .csv extension")
	ErrTooLarge   = errors.New("file too large")
)

// Validate checks that path names an existing regular .csv file no larger
// than maxSize. A maxSize of zero or less disables the size check.
func Validate(path string, maxSize int64) error {
	if strings.TrimSpace(path) == "" {
		return ErrNoPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".csv") {
		if ext == "" {
			ext = "(none)"
		}
		return fmt.Errorf("%s: %w, got %s", path, ErrNotCSV, ext)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return tooLarge(path, info.Size(), maxSize)
	}
	return nil
}

// Load validates path, reads it and decodes it into a Document.
func Load(path string, opts Options) (*Document, error) {
	if err := Validate(path, opts.MaxSize); err != nil {
		return nil, err
	}
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(path, raw, opts)
}

// ReadFrom decodes everything r yields into a virtual Document named name.
// The size limit applies; extension checks do not.
func ReadFrom(name string, r io.Reader, opts Options) (*Document, error) {
	var reader io.Reader = r
	if opts.MaxSize > 0 {
		reader = io.LimitReader(r, opts.MaxSize+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if opts.MaxSize > 0 && int64(len(raw)) > opts.MaxSize {
		return nil, tooLarge(name, int64(len(raw)), opts.MaxSize)
	}
	doc, err := FromBytes(name, raw, opts)
	if err != nil {
		return nil, err
	}
	doc.flags |= FileVirtual
	return doc, nil
}

// FromBytes decodes raw and splits it into a Document. A leading byte order
// mark is removed.
func FromBytes(path string, raw []byte, opts Options) (*Document, error) {
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
	text, used, err := Decode(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	doc := NewDocument(path, text)
	doc.encoding = used
	if used != CanonicalEncoding(opts.Encoding) {
		doc.flags |= FileFallbackEncoding
	}
	var hadBOM bool
	if doc.Len() > 0 {
		doc.lines[0], hadBOM = removeBOM(doc.lines[0])
	}
	if hadBOM {
		doc.flags |= FileHadBOM
	}
	return doc, nil
}

func tooLarge(path string, size, limit int64) error {
	s, err := safecast.Conv[uint64](size)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	l, err := safecast.Conv[uint64](limit)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	return fmt.Errorf("%s: %w: %s exceeds limit of %s", path, ErrTooLarge, humanize.IBytes(s), humanize.IBytes(l))
}

// HumanSize renders n bytes the way size errors do.
func HumanSize(n int) string {
	u, err := safecast.Conv[uint64](n)
	if err != nil {
		return "?"
	}
	return humanize.IBytes(u)
}
