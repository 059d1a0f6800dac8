package objectstore

import "fmt"

// FakeStore is an in-memory Store used by component tests above the
// object store (height, pathscope, oracle) that need precise control over
// commit DAG shape without spinning up a real repository. Data-driven
// rather than func-field stubs: callers assemble whole DAGs, not single
// canned calls.
type FakeStore struct {
	Commits    map[string]Commit
	Trees      map[string][]TreeEntry
	Refs       map[string]string // canonical name -> commit id
	Head       string            // canonical ref name, or "" if detached
	HeadCommit string
	Shallow    bool
	GitDirPath string
	WorkDirPath string
	Blobs      map[string][]byte
	UserName   string
	UserEmail  string
}

var _ Store = (*FakeStore)(nil)

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Commits: make(map[string]Commit),
		Trees:   make(map[string][]TreeEntry),
		Refs:    make(map[string]string),
		Blobs:   make(map[string][]byte),
	}
}

// AddBlob registers blob content under id, for tests exercising version
// file discovery against a FakeStore.
func (f *FakeStore) AddBlob(id string, content []byte) {
	f.Blobs[id] = content
}

// AddCommit registers a commit and its tree entries.
func (f *FakeStore) AddCommit(c Commit, tree []TreeEntry) {
	f.Commits[c.ID] = c
	f.Trees[c.TreeID] = tree
}

func (f *FakeStore) GitDir() string  { return f.GitDirPath }
func (f *FakeStore) WorkDir() string { return f.WorkDirPath }
func (f *FakeStore) IsShallow() bool { return f.Shallow }

func (f *FakeStore) ReadCommit(id string) (Commit, error) {
	c, ok := f.Commits[id]
	if !ok {
		return Commit{}, fmt.Errorf("reading commit %s: %w", id, ErrNotFound)
	}
	return c, nil
}

func (f *FakeStore) ReadTree(id string) ([]TreeEntry, error) {
	t, ok := f.Trees[id]
	if !ok {
		return nil, fmt.Errorf("reading tree %s: %w", id, ErrNotFound)
	}
	return t, nil
}

func (f *FakeStore) ReadBlob(id string) ([]byte, error) {
	b, ok := f.Blobs[id]
	if !ok {
		return nil, fmt.Errorf("reading blob %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// SubtreeID walks path through the fake tree structure.
func (f *FakeStore) SubtreeID(treeID, path string) (string, error) {
	if path == "" {
		return treeID, nil
	}
	current := treeID
	for _, component := range splitPath(path) {
		entries, ok := f.Trees[current]
		if !ok {
			return "", nil
		}
		found := false
		for _, e := range entries {
			if e.Name == component {
				if e.Kind == KindSubmodule {
					return "", nil
				}
				current = e.TargetID
				found = true
				break
			}
		}
		if !found {
			return "", nil
		}
	}
	return current, nil
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

func (f *FakeStore) ResolveRef(committish string) (string, error) {
	if committish == "" || committish == "HEAD" {
		return f.HeadCommit, nil
	}
	if id, ok := f.Refs["refs/heads/"+committish]; ok {
		return id, nil
	}
	if id, ok := f.Refs["refs/tags/"+committish]; ok {
		return id, nil
	}
	if _, ok := f.Commits[committish]; ok {
		return committish, nil
	}
	for id := range f.Commits {
		if len(committish) >= 4 && len(id) >= len(committish) && id[:len(committish)] == committish {
			return id, nil
		}
	}
	return "", fmt.Errorf("resolving %q: %w", committish, ErrNotFound)
}

func (f *FakeStore) HeadRef() (string, string, error) {
	return f.Head, f.HeadCommit, nil
}

func (f *FakeStore) ShortID(id string, minLength int) (string, error) {
	if minLength > len(id) {
		minLength = len(id)
	}
	for n := minLength; n <= len(id); n++ {
		prefix := id[:n]
		count := 0
		for other := range f.Commits {
			if len(other) >= n && other[:n] == prefix {
				count++
			}
		}
		if count <= 1 {
			return prefix, nil
		}
	}
	return id, nil
}

func (f *FakeStore) ListRefs() ([]Reference, error) {
	refs := make([]Reference, 0, len(f.Refs))
	for name, id := range f.Refs {
		refs = append(refs, Reference{Name: name, CommitID: id, Source: SourceLoose})
	}
	return refs, nil
}

func (f *FakeStore) UncommittedChangeCount() (int, error) { return 0, nil }

func (f *FakeStore) UserIdentity() (string, string, error) { return f.UserName, f.UserEmail, nil }

func (f *FakeStore) CreateTag(name, commitID string) error {
	key := "refs/tags/" + name
	if _, ok := f.Refs[key]; ok {
		return fmt.Errorf("tag %s: %w", name, ErrTagExists)
	}
	f.Refs[key] = commitID
	return nil
}

func (f *FakeStore) StageFile(relPath string, content []byte) error { return nil }
