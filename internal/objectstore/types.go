// Package objectstore provides read access to a Git repository's objects,
// refs, and working tree, plus the two narrow write operations the rest of
// this module is permitted to perform: creating a tag and staging a file.
// It wraps go-git rather than parsing packfiles by hand, so it
// transparently supports loose objects, pack index v2, and
// OFS_DELTA/REF_DELTA resolution without reimplementing any of that.
package objectstore

import "time"

// EntryKind classifies a tree entry.
type EntryKind int

const (
	KindBlob EntryKind = iota
	KindTree
	KindLink
	KindSubmodule
)

func (k EntryKind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindLink:
		return "link"
	case KindSubmodule:
		return "submodule"
	default:
		return "unknown"
	}
}

// Commit is an immutable snapshot of a commit object.
type Commit struct {
	ID         string
	ParentIDs  []string
	TreeID     string
	AuthorTime time.Time
	Message    string
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.ParentIDs) > 1 }

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.ParentIDs) == 0 }

// TreeEntry is one entry of a tree object.
type TreeEntry struct {
	Name     string
	Mode     uint32
	TargetID string
	Kind     EntryKind
}

// RefSource records where a reference was found.
type RefSource int

const (
	SourceLoose RefSource = iota
	SourcePacked
	SourceSymbolic
)

// Reference is a resolved named reference.
type Reference struct {
	Name     string // canonical form, e.g. "refs/heads/main"
	CommitID string
	Source   RefSource
}
