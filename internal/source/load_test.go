package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "ok.CSV", []byte("a,b\n"))
	assert.NoError(t, Validate(good, DefaultMaxSize))

	assert.ErrorIs(t, Validate("", DefaultMaxSize), ErrNoPath)
	assert.ErrorIs(t, Validate(filepath.Join(t.TempDir(), "missing.csv"), DefaultMaxSize), fs.ErrNotExist)
	assert.ErrorIs(t, Validate(t.TempDir(), DefaultMaxSize), ErrNotRegular)

	txt := writeFile(t, "data.txt", []byte("a,b\n"))
	err := Validate(txt, DefaultMaxSize)
	require.ErrorIs(t, err, ErrNotCSV)
	assert.Contains(t, err.Error(), ".txt")

	big := writeFile(t, "big.csv", []byte(strings.Repeat("x", 2048)))
	err = Validate(big, 1024)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Contains(t, err.Error(), "2.0 KiB")
	assert.NoError(t, Validate(big, 0))
}

func TestLoadStripsBOMAndKeepsCRLF(t *testing.T) {
	path := writeFile(t, "bom.csv", []byte("\xEF\xBB\xBFid,name\r\n1,a\r\n"))
	doc, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	header, err := doc.Line(1)
	require.NoError(t, err)
	assert.Equal(t, "id,name", header)
	assert.True(t, doc.Flags().Has(FileHadBOM))
	assert.Equal(t, "utf-8", doc.Encoding())
	assert.Equal(t, "id,name\r\n1,a\r\n", doc.Join())
}

func TestLoadFallsBackToLatin1(t *testing.T) {
	// "café" in ISO-8859-1
	path := writeFile(t, "latin.csv", []byte("name\ncaf\xE9\n"))
	doc, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	line, err := doc.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "café", line)
	assert.Equal(t, "latin-1", doc.Encoding())
	assert.True(t, doc.Flags().Has(FileFallbackEncoding))
}

func TestDecodeWithoutFallbacksFails(t *testing.T) {
	_, _, err := Decode([]byte("caf\xE9"), Options{Encoding: "utf-8"})
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, _, err := Decode([]byte("x"), Options{Encoding: "klingon-8"})
	assert.ErrorIs(t, err, ErrUnknownEncoding)
	assert.Error(t, CheckEncoding("klingon-8"))
	assert.NoError(t, CheckEncoding("Windows-1252"))
	assert.NoError(t, CheckEncoding("shift_jis"))
}

func TestCanonicalEncoding(t *testing.T) {
	assert.Equal(t, "utf-8", CanonicalEncoding("UTF8"))
	assert.Equal(t, "latin-1", CanonicalEncoding("latin_1"))
	assert.Equal(t, "cp1252", CanonicalEncoding("Windows-1252"))
	assert.Equal(t, "iso-8859-1", CanonicalEncoding("ISO-8859-1"))
}

func TestReadFromEnforcesSize(t *testing.T) {
	_, err := ReadFrom("-", strings.NewReader(strings.Repeat("a", 100)), Options{Encoding: "utf-8", MaxSize: 10})
	assert.ErrorIs(t, err, ErrTooLarge)

	doc, err := ReadFrom("-", strings.NewReader("a,b\n1,2\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Len())
	assert.True(t, doc.Flags().Has(FileVirtual))
	assert.Equal(t, "-", doc.Path())
}
