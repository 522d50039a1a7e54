package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmend/internal/detect"
	"csvmend/internal/diag"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache("csvmend", t.TempDir())
	require.NoError(t, err)

	key := KeyFor([32]byte{1, 2, 3}, detect.Options{})
	in := &DiskPayload{
		Encoding: "latin-1",
		Expected: 3,
		Lines:    10,
		Issues: []diag.Issue{
			diag.Issue{Line: 4, Content: "1,2", Diagnosis: diag.FieldCountMismatch(2, 3), Severity: diag.SevError}.
				WithFix("pad with 1 empty field", "1,2,"),
			{Line: 7, Content: `"x`, Diagnosis: diag.UnbalancedQuotes(), Severity: diag.SevError},
		},
	}
	require.NoError(t, cache.Put(key, in))

	var out DiskPayload
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, in.Issues, out.Issues)
	assert.Equal(t, "latin-1", out.Encoding)
	assert.Equal(t, diskCacheSchemaVersion, out.Schema)
}

func TestDiskCacheMissAndNil(t *testing.T) {
	cache, err := OpenDiskCache("csvmend", t.TempDir())
	require.NoError(t, err)

	var out DiskPayload
	hit, err := cache.Get(KeyFor([32]byte{9}, detect.Options{}), &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var none *DiskCache
	hit, err = none.Get(Digest{}, &out)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, none.Put(Digest{}, &DiskPayload{}))
	assert.NoError(t, none.DropAll())
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	cache, err := OpenDiskCache("csvmend", dir)
	require.NoError(t, err)

	key := KeyFor([32]byte{5}, detect.Options{})
	require.NoError(t, cache.Put(key, &DiskPayload{Expected: 1}))
	require.NoError(t, cache.DropAll())

	var out DiskPayload
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestOpenDiskCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenDiskCache("csvmend", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "csvmend"), cache.Dir())
}

func TestKeyForDependsOnOptions(t *testing.T) {
	h := [32]byte{7}
	assert.Equal(t, KeyFor(h, detect.Options{}), KeyFor(h, detect.Options{}))
	assert.NotEqual(t, KeyFor(h, detect.Options{}), KeyFor(h, detect.Options{MaxIssues: 5}))
	assert.NotEqual(t, KeyFor(h, detect.Options{}), KeyFor(h, detect.Options{NoSuggestions: true}))
}
