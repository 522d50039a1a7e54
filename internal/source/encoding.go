package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrUnknownEncoding is returned for an encoding name nothing recognises.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrUndecodable is returned when no configured encoding decodes the input.
	ErrUndecodable = errors.New("input could not be decoded")
)

// CanonicalEncoding folds common spellings ("UTF8", "latin_1", "CP1252") to
// the names used in logs and reports.
func CanonicalEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	switch n {
	case "", "utf-8", "utf8":
		return "utf-8"
	case "utf-8-sig", "utf8-sig":
		return "utf-8-sig"
	case "latin-1", "latin1", "l1":
		return "latin-1"
	case "iso-8859-1", "iso8859-1":
		return "iso-8859-1"
	case "cp1252", "windows-1252":
		return "cp1252"
	}
	return n
}

// CheckEncoding reports whether name can be used for decoding.
func CheckEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

// lookupEncoding returns nil for the UTF-8 family, which is validated rather
// than transformed.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch CanonicalEncoding(name) {
	case "utf-8", "utf-8-sig":
		return nil, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp1252":
		return charmap.Windows1252, nil
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

func decodeAs(raw []byte, name string) (string, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%s: invalid byte sequence", CanonicalEncoding(name))
		}
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", CanonicalEncoding(name), err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%s: unmappable bytes", CanonicalEncoding(name))
	}
	return string(out), nil
}

// Decode tries opts.Encoding, then each fallback in order, and returns the
// text with the canonical name of the encoding that succeeded.
func Decode(raw []byte, opts Options) (text, used string, err error) {
	candidates := make([]string, 0, 1+len(opts.Fallbacks))
	candidates = append(candidates, opts.Encoding)
	candidates = append(candidates, opts.Fallbacks...)

	var failures []string
	for _, name := range candidates {
		decoded, derr := decodeAs(raw, name)
		if derr == nil {
			return decoded, CanonicalEncoding(name), nil
		}
		if errors.Is(derr, ErrUnknownEncoding) {
			return "", "", derr
		}
		failures = append(failures, derr.Error())
	}
	return "", "", fmt.Errorf("%w (%s)", ErrUndecodable, strings.Join(failures, "; "))
}
