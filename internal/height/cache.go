package height

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const cacheFileName = "version.cache.json"

// CacheEntry is the persisted record written beside version.json. The
// cache is advisory: a caller that fails to read or write it still gets a
// correct answer, just recomputed.
type CacheEntry struct {
	Version  string `json:"version"`
	CommitID string `json:"commitId"`
	Height   int    `json:"height"`
}

// ReadCache reads the cache file beside versionFilePath. A missing,
// empty, or corrupt file is reported as a cache miss, never an error.
func ReadCache(versionFilePath string) (CacheEntry, bool) {
	data, err := os.ReadFile(cachePath(versionFilePath))
	if err != nil || len(data) == 0 {
		return CacheEntry{}, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return CacheEntry{}, false
	}
	return entry, true
}

// Lookup returns the cached height when entry matches baseVersion and
// commitID exactly.
func Lookup(versionFilePath, baseVersion, commitID string) (int, bool) {
	entry, ok := ReadCache(versionFilePath)
	if !ok {
		return 0, false
	}
	if entry.Version != baseVersion || entry.CommitID != commitID {
		return 0, false
	}
	return entry.Height, true
}

// WriteCache atomically replaces the cache file beside versionFilePath via
// write-temp-then-rename, tolerating concurrent writers clobbering each
// other: the content is a pure function of (commit id, base
// version), so the last writer's data is never wrong, only possibly stale
// for a different commit.
func WriteCache(versionFilePath string, entry CacheEntry) error {
	dir := filepath.Dir(versionFilePath)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling height cache entry: %w", err)
	}

	tmpName := filepath.Join(dir, cacheFileName+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpName, data, 0o644); err != nil {
		return fmt.Errorf("writing temp height cache: %w", err)
	}
	if err := os.Rename(tmpName, cachePath(versionFilePath)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp height cache into place: %w", err)
	}
	return nil
}

func cachePath(versionFilePath string) string {
	return filepath.Join(filepath.Dir(versionFilePath), cacheFileName)
}
