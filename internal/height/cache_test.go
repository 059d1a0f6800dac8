package height_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/height"
)

func TestWriteCache_ThenLookupHits(t *testing.T) {
	dir := t.TempDir()
	versionFile := filepath.Join(dir, "version.json")

	entry := height.CacheEntry{Version: "1.2", CommitID: "abc123", Height: 7}
	require.NoError(t, height.WriteCache(versionFile, entry))

	h, ok := height.Lookup(versionFile, "1.2", "abc123")
	require.True(t, ok)
	assert.Equal(t, 7, h)
}

func TestLookup_MissesOnVersionOrCommitMismatch(t *testing.T) {
	dir := t.TempDir()
	versionFile := filepath.Join(dir, "version.json")
	require.NoError(t, height.WriteCache(versionFile, height.CacheEntry{Version: "1.2", CommitID: "abc123", Height: 7}))

	_, ok := height.Lookup(versionFile, "2.0", "abc123")
	assert.False(t, ok, "stale base version must not hit")

	_, ok = height.Lookup(versionFile, "1.2", "def456")
	assert.False(t, ok, "different commit must not hit")
}

func TestReadCache_CorruptFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	versionFile := filepath.Join(dir, "version.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.cache.json"), []byte("{truncated"), 0o644))

	_, ok := height.ReadCache(versionFile)
	assert.False(t, ok)
}

func TestReadCache_MissingFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	_, ok := height.ReadCache(filepath.Join(dir, "version.json"))
	assert.False(t, ok)
}
