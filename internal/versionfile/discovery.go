package versionfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gitversioning/gitversioning/internal/objectstore"
)

const (
	jsonFileName  = "version.json"
	legacyFile    = "version.txt"
)

// Discover walks the working tree upward from dir looking for version.json
// or version.txt, applying the inherit=true merge chain.
func Discover(dir string) (*VersionOptions, string, error) {
	return discoverWorkingTree(dir, true)
}

// IsDefined reports whether a version configuration exists at or above dir,
// without fully parsing it.
func IsDefined(dir string) (bool, error) {
	_, found, err := findNearestWorkingTreeFile(dir)
	if err != nil {
		return false, err
	}
	return found != "", nil
}

func discoverWorkingTree(dir string, allowInherit bool) (*VersionOptions, string, error) {
	path, found, err := findNearestWorkingTreeFile(dir)
	if err != nil {
		return nil, "", err
	}
	if found == "" {
		return nil, "", nil
	}

	opts, err := parseWorkingTreeFile(found)
	if err != nil {
		return nil, "", err
	}

	if opts.Inherit != nil && *opts.Inherit && allowInherit {
		parentDir := filepath.Dir(filepath.Dir(found))
		parent, _, err := discoverWorkingTree(parentDir, true)
		if err != nil {
			return nil, "", err
		}
		if parent != nil {
			merged, err := Merge(opts, parent)
			if err != nil {
				return nil, "", err
			}
			return merged, path, nil
		}
	}

	opts.ApplyDefaults()
	return opts, path, nil
}

// findNearestWorkingTreeFile walks dir upward until it finds version.json
// or version.txt, or runs out of directories.
func findNearestWorkingTreeFile(dir string) (path string, found string, err error) {
	cur := dir
	for {
		jsonPath := filepath.Join(cur, jsonFileName)
		if st, statErr := os.Stat(jsonPath); statErr == nil && !st.IsDir() {
			return jsonPath, jsonPath, nil
		}
		txtPath := filepath.Join(cur, legacyFile)
		if st, statErr := os.Stat(txtPath); statErr == nil && !st.IsDir() {
			return txtPath, txtPath, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", "", nil
		}
		cur = parent
	}
}

func parseWorkingTreeFile(path string) (*VersionOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.HasSuffix(path, legacyFile) {
		return ParseLegacyText(data, "")
	}
	return ParseJSON(data, "")
}

// DiscoverAtCommit performs the same upward walk as Discover but against
// the tree of commitID in store, starting at subdirectory.
func DiscoverAtCommit(store objectstore.Store, commitID, subdirectory string) (*VersionOptions, error) {
	return discoverAtCommit(store, commitID, subdirectory, true)
}

// IsDefinedAtCommit is the commit-tree analogue of IsDefined.
func IsDefinedAtCommit(store objectstore.Store, commitID, subdirectory string) (bool, error) {
	commit, err := store.ReadCommit(commitID)
	if err != nil {
		return false, fmt.Errorf("reading commit %s: %w", commitID, err)
	}
	data, _, _, err := findNearestCommitFile(store, commit.TreeID, subdirectory)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func discoverAtCommit(store objectstore.Store, commitID, subdirectory string, allowInherit bool) (*VersionOptions, error) {
	commit, err := store.ReadCommit(commitID)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", commitID, err)
	}

	data, isLegacy, foundDir, err := findNearestCommitFile(store, commit.TreeID, subdirectory)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var opts *VersionOptions
	if isLegacy {
		opts, err = ParseLegacyText(data, commitID)
	} else {
		opts, err = ParseJSON(data, commitID)
	}
	if err != nil {
		return nil, err
	}

	if opts.Inherit != nil && *opts.Inherit && allowInherit && foundDir != "" {
		parentDir := parentOf(foundDir)
		parent, err := discoverAtCommit(store, commitID, parentDir, true)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			return Merge(opts, parent)
		}
	}

	opts.ApplyDefaults()
	return opts, nil
}

// findNearestCommitFile walks subdirectory upward inside treeID, returning
// raw file bytes, whether the match was the legacy format, and the
// directory it was found in.
func findNearestCommitFile(store objectstore.Store, treeID, subdirectory string) (data []byte, isLegacy bool, foundDir string, err error) {
	cur := subdirectory
	for {
		subtreeID, err := store.SubtreeID(treeID, cur)
		if err != nil {
			return nil, false, "", fmt.Errorf("resolving subtree %q: %w", cur, err)
		}
		if subtreeID != "" {
			entries, err := store.ReadTree(subtreeID)
			if err != nil {
				return nil, false, "", fmt.Errorf("reading tree at %q: %w", cur, err)
			}
			if blobID := findBlob(entries, jsonFileName); blobID != "" {
				content, err := store.ReadBlob(blobID)
				if err != nil {
					return nil, false, "", fmt.Errorf("reading %s at %q: %w", jsonFileName, cur, err)
				}
				return content, false, cur, nil
			}
			if blobID := findBlob(entries, legacyFile); blobID != "" {
				content, err := store.ReadBlob(blobID)
				if err != nil {
					return nil, false, "", fmt.Errorf("reading %s at %q: %w", legacyFile, cur, err)
				}
				return content, true, cur, nil
			}
		}

		if cur == "" {
			return nil, false, "", nil
		}
		cur = parentOf(cur)
	}
}

func findBlob(entries []objectstore.TreeEntry, name string) string {
	for _, e := range entries {
		if e.Kind == objectstore.KindBlob && e.Name == name {
			return e.TargetID
		}
	}
	return ""
}

func parentOf(dir string) string {
	if dir == "" {
		return ""
	}
	idx := strings.LastIndex(dir, "/")
	if idx < 0 {
		return ""
	}
	return dir[:idx]
}
