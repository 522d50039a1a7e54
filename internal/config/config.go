// Package config resolves csvmend settings from defaults, csvmend.toml, a
// .env file and CSVMEND_* environment variables. Command-line flags are
// applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"csvmend/internal/editor"
	"csvmend/internal/logging"
	"csvmend/internal/repair"
	"csvmend/internal/source"
)

const (
	// FileName is the config file searched for from the working directory up.
	FileName = "csvmend.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CSVMEND_"
	// DefaultSuffix is inserted between stem and timestamp of repaired files.
	DefaultSuffix = "_repaired"
)

type Config struct {
	Input  InputConfig  `toml:"input"`
	Repair RepairConfig `toml:"repair"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the csvmend.toml that was loaded, empty when none.
	Path string `toml:"-"`
}

type InputConfig struct {
	Encoding          string   `toml:"encoding"`
	FallbackEncodings []string `toml:"fallback_encodings"`
	MaxSize           ByteSize `toml:"max_size"`
}

type RepairConfig struct {
	Editor      string `toml:"editor"`
	Strategy    string `toml:"strategy"`
	MaxAttempts int    `toml:"max_attempts"`
	Recheck     bool   `toml:"recheck"`
}

type OutputConfig struct {
	// Dir receives repaired files; empty means next to the input.
	Dir    string `toml:"dir"`
	Suffix string `toml:"suffix"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	src := source.DefaultOptions()
	return &Config{
		Input: InputConfig{
			Encoding:          src.Encoding,
			FallbackEncodings: src.Fallbacks,
			MaxSize:           ByteSize(src.MaxSize),
		},
		Repair: RepairConfig{
			Editor:   string(editor.ModeAuto),
			Strategy: string(repair.StrategyConfirm),
		},
		Output: OutputConfig{Suffix: DefaultSuffix},
		Log:    LogConfig{Level: "warn", Format: logging.FormatConsole},
	}
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// Path is an explicit config file; it must exist when set.
	Path string
	// StartDir is where the csvmend.toml search begins (default ".").
	StartDir string
	// EnvFile is the dotenv file to read (default ".env"); a missing file is
	// not an error.
	EnvFile string
	// Getenv reads the process environment (default os.LookupEnv).
	Getenv func(string) (string, bool)
}

// Load resolves settings in order: defaults, csvmend.toml, .env, process
// environment. Real environment variables win over .env entries.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path := opts.Path
	if path == "" {
		found, ok, err := FindFile(opts.StartDir)
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", envFile, err)
		}
		dotenv = nil
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	lookup := func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindFile walks up from startDir looking for csvmend.toml.
func FindFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func (c *Config) decodeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("input", "encoding") && strings.TrimSpace(c.Input.Encoding) == "" {
		return fmt.Errorf("%s: [input].encoding must not be empty", path)
	}
	if meta.IsDefined("output", "suffix") && c.Output.Suffix == "" {
		return fmt.Errorf("%s: [output].suffix must not be empty", path)
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("ENCODING", &c.Input.Encoding)
	if v, ok := lookup(EnvPrefix + "FALLBACK_ENCODINGS"); ok {
		c.Input.FallbackEncodings = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "MAX_SIZE"); ok {
		if err := c.Input.MaxSize.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_SIZE: %w", EnvPrefix, err))
		}
	}
	str("EDITOR", &c.Repair.Editor)
	str("STRATEGY", &c.Repair.Strategy)
	if v, ok := lookup(EnvPrefix + "MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_ATTEMPTS: %w", EnvPrefix, err))
		} else {
			c.Repair.MaxAttempts = n
		}
	}
	boolean("RECHECK", &c.Repair.Recheck)
	str("OUTPUT_DIR", &c.Output.Dir)
	str("OUTPUT_SUFFIX", &c.Output.Suffix)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	boolean("CACHE", &c.Cache.Enabled)
	str("CACHE_DIR", &c.Cache.Dir)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if err := source.CheckEncoding(c.Input.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("input.encoding: %w", err))
	}
	for _, enc := range c.Input.FallbackEncodings {
		if err := source.CheckEncoding(enc); err != nil {
			errs = append(errs, fmt.Errorf("input.fallback_encodings: %w", err))
		}
	}
	if c.Input.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("input.max_size: must not be negative"))
	}
	if _, err := editor.ReadMode(c.Repair.Editor); err != nil {
		errs = append(errs, fmt.Errorf("repair.editor: %w", err))
	}
	if _, err := repair.ReadStrategy(c.Repair.Strategy); err != nil {
		errs = append(errs, fmt.Errorf("repair.strategy: %w", err))
	}
	if c.Repair.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("repair.max_attempts: must not be negative"))
	}
	if c.Output.Suffix == "" || strings.ContainsAny(c.Output.Suffix, `/\`) {
		errs = append(errs, fmt.Errorf("output.suffix: %q is not a valid file name part", c.Output.Suffix))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := logging.CheckFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	return errors.Join(errs...)
}

// SourceOptions returns the loader options.
func (c *Config) SourceOptions() source.Options {
	fallbacks := make([]string, len(c.Input.FallbackEncodings))
	copy(fallbacks, c.Input.FallbackEncodings)
	return source.Options{
		Encoding:  c.Input.Encoding,
		Fallbacks: fallbacks,
		MaxSize:   int64(c.Input.MaxSize),
	}
}

// ByteSize is a size in bytes. It accepts integers or humanized strings
// such as "50MiB" or "10 MB".
type ByteSize int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*b = ByteSize(n)
		return nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return err
	}
	if n > uint64(1<<63-1) {
		return fmt.Errorf("size %q overflows", s)
	}
	*b = ByteSize(n)
	return nil
}

// UnmarshalTOML lets max_size be a TOML integer or string.
func (b *ByteSize) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*b = ByteSize(x)
		return nil
	case string:
		return b.UnmarshalText([]byte(x))
	}
	return fmt.Errorf("max_size: unsupported value %v", v)
}

func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10)
	}
	return humanize.IBytes(uint64(b))
}
