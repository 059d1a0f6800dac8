package objectstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrTagExists is returned by GoGitStore.CreateTag when the named tag
// already exists.
var ErrTagExists = errors.New("tag already exists")

// ErrAmbiguous is returned by ResolveRef when a short hex prefix matches
// more than one commit.
var ErrAmbiguous = errors.New("ambiguous short object id")

// GoGitStore implements Store using go-git.
type GoGitStore struct {
	repo    *gogit.Repository
	gitDir  string
	workDir string
}

var _ Store = (*GoGitStore)(nil)

// Open locates and opens the git repository containing path, walking
// upward to find a ".git" directory, gitlink file, or bare repository.
func Open(path string) (*GoGitStore, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}

	gitDir := path
	workDir := ""
	if wt, wtErr := repo.Worktree(); wtErr == nil {
		workDir = wt.Filesystem.Root()
		gitDir = filepath.Join(workDir, ".git")
	}
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = fs.Filesystem().Root()
	}

	return &GoGitStore{repo: repo, gitDir: gitDir, workDir: workDir}, nil
}

func (s *GoGitStore) GitDir() string  { return s.gitDir }
func (s *GoGitStore) WorkDir() string { return s.workDir }

// IsShallow detects the presence of a "shallow" marker file inside the
// git directory.
func (s *GoGitStore) IsShallow() bool {
	if s.gitDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.gitDir, "shallow"))
	return err == nil
}

func (s *GoGitStore) ReadCommit(id string) (Commit, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", id, err)
	}
	return convertCommit(c), nil
}

func convertCommit(c *object.Commit) Commit {
	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return Commit{
		ID:         c.Hash.String(),
		ParentIDs:  parents,
		TreeID:     c.TreeHash.String(),
		AuthorTime: c.Author.When,
		Message:    c.Message,
	}
}

func (s *GoGitStore) ReadTree(id string) ([]TreeEntry, error) {
	t, err := s.repo.TreeObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", id, err)
	}
	entries := make([]TreeEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TreeEntry{
			Name:     e.Name,
			Mode:     uint32(e.Mode),
			TargetID: e.Hash.String(),
			Kind:     kindOf(e.Mode),
		})
	}
	return entries, nil
}

func (s *GoGitStore) ReadBlob(id string) ([]byte, error) {
	b, err := s.repo.BlobObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}
	reader, err := b.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", id, err)
	}
	defer reader.Close()
	data := make([]byte, b.Size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("reading blob %s content: %w", id, err)
	}
	return data, nil
}

func kindOf(mode filemode.FileMode) EntryKind {
	switch mode {
	case filemode.Dir:
		return KindTree
	case filemode.Symlink:
		return KindLink
	case filemode.Submodule:
		return KindSubmodule
	default:
		return KindBlob
	}
}

// SubtreeID walks path component by component from the tree rooted at
// treeID. Submodules are opaque: their recorded id is compared but never
// descended into.
func (s *GoGitStore) SubtreeID(treeID, path string) (string, error) {
	if path == "" {
		return treeID, nil
	}
	t, err := s.repo.TreeObject(plumbing.NewHash(treeID))
	if err != nil {
		return "", fmt.Errorf("reading tree %s: %w", treeID, err)
	}
	entry, err := t.FindEntry(path)
	if err != nil {
		return "", nil // not found is not an error: caller treats as absent
	}
	if entry.Mode == filemode.Submodule {
		return "", nil
	}
	return entry.Hash.String(), nil
}

// ResolveRef tries, in order: exact/short commit id, local branch,
// remote-tracking branch, tag, fully qualified ref, symbolic HEAD.
func (s *GoGitStore) ResolveRef(committish string) (string, error) {
	if committish == "" || strings.EqualFold(committish, "HEAD") {
		_, id, err := s.HeadRef()
		return id, err
	}

	if isHex(committish) {
		if len(committish) == 40 {
			if _, err := s.repo.CommitObject(plumbing.NewHash(committish)); err == nil {
				return strings.ToLower(committish), nil
			}
		} else if len(committish) >= 4 {
			id, err := s.resolveShortHex(committish)
			if err == nil {
				return id, nil
			}
			if errors.Is(err, ErrAmbiguous) {
				return "", err
			}
			// fall through to ref-name resolution.
		}
	}

	candidates := []string{
		"refs/heads/" + committish,
		"refs/remotes/" + committish,
		"refs/tags/" + committish,
	}
	for _, name := range candidates {
		if ref, err := s.repo.Reference(plumbing.ReferenceName(name), true); err == nil {
			return s.peel(ref.Hash())
		}
	}

	if strings.HasPrefix(committish, "refs/") {
		if ref, err := s.repo.Reference(plumbing.ReferenceName(committish), true); err == nil {
			return s.peel(ref.Hash())
		}
	}

	return "", fmt.Errorf("resolving committish %q: %w", committish, ErrNotFound)
}

// peel dereferences annotated tag objects (including nested ones) down to
// the commit they ultimately point at. A hash that is not a tag object is
// returned unchanged.
func (s *GoGitStore) peel(hash plumbing.Hash) (string, error) {
	for {
		tag, err := s.repo.TagObject(hash)
		if err != nil {
			return hash.String(), nil
		}
		if tag.TargetType != plumbing.TagObject {
			return tag.Target.String(), nil
		}
		hash = tag.Target
	}
}

// ErrNotFound is returned when a committish cannot be resolved to any object.
var ErrNotFound = errors.New("object not found")

func isHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

func (s *GoGitStore) resolveShortHex(prefix string) (string, error) {
	prefix = strings.ToLower(prefix)
	var match string
	iter, err := s.repo.CommitObjects()
	if err != nil {
		return "", fmt.Errorf("listing commits: %w", err)
	}
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		sha := c.Hash.String()
		if strings.HasPrefix(sha, prefix) {
			if match != "" && match != sha {
				return ErrAmbiguous
			}
			match = sha
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}

// HeadRef returns HEAD's canonical branch name (empty if detached) and
// resolved commit id.
func (s *GoGitStore) HeadRef() (string, string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("resolving HEAD: %w", err)
	}
	name := ""
	if ref.Name().IsBranch() {
		name = string(ref.Name())
	}
	return name, ref.Hash().String(), nil
}

// ShortID produces the shortest hex prefix of id unique across the
// repository's commits, never shorter than minLength.
func (s *GoGitStore) ShortID(id string, minLength int) (string, error) {
	if minLength < 1 {
		minLength = 1
	}
	if minLength > len(id) {
		minLength = len(id)
	}
	iter, err := s.repo.CommitObjects()
	if err != nil {
		return "", fmt.Errorf("listing commits: %w", err)
	}
	defer iter.Close()

	var all []string
	err = iter.ForEach(func(c *object.Commit) error {
		all = append(all, c.Hash.String())
		return nil
	})
	if err != nil {
		return "", err
	}

	for n := minLength; n <= len(id); n++ {
		prefix := id[:n]
		collisions := 0
		for _, sha := range all {
			if strings.HasPrefix(sha, prefix) {
				collisions++
				if collisions > 1 {
					break
				}
			}
		}
		if collisions <= 1 {
			return prefix, nil
		}
	}
	return id, nil
}

// ListRefs returns every hash reference go-git reports, loose and packed
// alike. Each one is reported with Source SourceLoose: whether it was read
// from packed-refs is not recorded.
func (s *GoGitStore) ListRefs() ([]Reference, error) {
	var refs []Reference
	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		refs = append(refs, Reference{
			Name:     string(ref.Name()),
			CommitID: ref.Hash().String(),
			Source:   SourceLoose,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}
	return refs, nil
}

func (s *GoGitStore) UncommittedChangeCount() (int, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return 0, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("getting worktree status: %w", err)
	}
	count := 0
	for _, st := range status {
		if st.Staging != gogit.Unmodified || st.Worktree != gogit.Unmodified {
			count++
		}
	}
	return count, nil
}

// UserIdentity reads user.name and user.email through go-git's scoped
// config resolution (repository, then global, then system).
func (s *GoGitStore) UserIdentity() (string, string, error) {
	cfg, err := s.repo.ConfigScoped(gogitconfig.SystemScope)
	if err != nil {
		return "", "", fmt.Errorf("reading git config: %w", err)
	}
	return cfg.User.Name, cfg.User.Email, nil
}

// CreateTag creates a lightweight tag, the only branch/ref-mutating
// operation this module performs.
func (s *GoGitStore) CreateTag(name, commitID string) error {
	refName := plumbing.NewTagReferenceName(name)
	if _, err := s.repo.Reference(refName, false); err == nil {
		return fmt.Errorf("tag %s: %w", name, ErrTagExists)
	}
	ref := plumbing.NewHashReference(refName, plumbing.NewHash(commitID))
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// StageFile writes content to relPath under the working directory and
// stages it, the only other write operation this module performs.
func (s *GoGitStore) StageFile(relPath string, content []byte) error {
	if s.workDir == "" {
		return errors.New("staging a file requires a working tree")
	}
	full := filepath.Join(s.workDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating parent directories for %s: %w", relPath, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	wt, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add(relPath); err != nil {
		return fmt.Errorf("staging %s: %w", relPath, err)
	}
	return nil
}
