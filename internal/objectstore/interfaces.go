package objectstore

// Store is the abstraction point for git object access. A fake
// implementation backs unit tests for components above the object store
// without touching disk.
type Store interface {
	// GitDir returns the path to the .git directory (resolved through
	// gitlink files and bare repositories).
	GitDir() string

	// WorkDir returns the working tree root, or "" for a bare repository.
	WorkDir() string

	// IsShallow reports whether the repository has a shallow marker.
	IsShallow() bool

	// ReadCommit reads a commit object by full hex id.
	ReadCommit(id string) (Commit, error)

	// ReadTree reads a tree object's entries by full hex id.
	ReadTree(id string) ([]TreeEntry, error)

	// ReadBlob reads a blob object's raw content by full hex id.
	ReadBlob(id string) ([]byte, error)

	// SubtreeID resolves the tree id of path within the tree rooted at
	// treeID, or "" if path does not exist. path uses "/" separators and
	// "" means the tree itself.
	SubtreeID(treeID, path string) (string, error)

	// ResolveRef resolves a committish, trying in order: exact commit
	// id, refs/heads/<x>, refs/remotes/<x>, refs/tags/<x>, packed-refs,
	// then symbolic HEAD.
	ResolveRef(committish string) (string, error)

	// HeadRef returns the canonical name of the ref HEAD points to
	// ("" if HEAD is detached) and the resolved commit id.
	HeadRef() (name string, commitID string, err error)

	// ShortID returns the shortest hex prefix of id that is unique across
	// the repository's resolvable commits, never shorter than minLength.
	ShortID(id string, minLength int) (string, error)

	// ListRefs unions loose refs and packed-refs.
	ListRefs() ([]Reference, error)

	// UncommittedChangeCount counts dirty working-tree entries.
	UncommittedChangeCount() (int, error)

	// UserIdentity returns the configured committer name and email,
	// searching repository then global then system config. Either may be
	// empty when unconfigured.
	UserIdentity() (name string, email string, err error)

	// CreateTag creates a tag named name pointing at commitID. When the
	// tag already exists it returns a plain error wrapping ErrTagExists;
	// callers distinguish "already exists" with errors.Is.
	CreateTag(name, commitID string) error

	// StageFile writes content to path (relative to WorkDir) and stages
	// it via `git add`. It does not commit.
	StageFile(relPath string, content []byte) error
}
