package source

// Flags encodes metadata about how a document was loaded.
type Flags uint8

const (
	// FileVirtual indicates the document was built from memory (test, stdin, etc.).
	FileVirtual Flags = 1 << iota
	// FileHadBOM indicates a leading UTF-8 byte order mark was stripped.
	FileHadBOM
	// FileFallbackEncoding indicates the primary encoding failed and a
	// fallback decoded the content.
	FileFallbackEncoding
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

const (
	// DefaultMaxSize is the largest input accepted by Validate.
	DefaultMaxSize int64 = 50 << 20
	// DefaultEncoding is tried first.
	DefaultEncoding = "utf-8"
)

// DefaultFallbackEncodings are tried in order when DefaultEncoding fails.
var DefaultFallbackEncodings = []string{"latin-1", "cp1252", "iso-8859-1"}

// Options controls validation and decoding.
type Options struct {
	Encoding  string
	Fallbacks []string
	// MaxSize in bytes; zero or less disables the check.
	MaxSize int64
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	fallbacks := make([]string, len(DefaultFallbackEncodings))
	copy(fallbacks, DefaultFallbackEncodings)
	return Options{
		Encoding:  DefaultEncoding,
		Fallbacks: fallbacks,
		MaxSize:   DefaultMaxSize,
	}
}
