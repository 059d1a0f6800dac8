package pathscope

import (
	"fmt"

	"github.com/go-gitversioning/gitversioning/internal/objectstore"
)

// Walker provides ancestor iteration and scope-aware change detection
// backed by a Store.
type Walker struct {
	store objectstore.Store
}

// NewWalker creates a Walker over store.
func NewWalker(store objectstore.Store) *Walker {
	return &Walker{store: store}
}

// Ancestors returns commits reachable from start, each visited once.
// Order is unspecified beyond "every commit is yielded before its
// ancestors are exhausted" — this implementation yields in a
// breadth-first order over the merge DAG.
func (w *Walker) Ancestors(start string) ([]objectstore.Commit, error) {
	var out []objectstore.Commit
	visited := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		c, err := w.store.ReadCommit(id)
		if err != nil {
			return nil, fmt.Errorf("walking ancestors of %s: %w", start, err)
		}
		out = append(out, c)
		queue = append(queue, c.ParentIDs...)
	}
	return out, nil
}

// ChangesPathScope reports whether any file within scope differs between
// commit's tree and every parent's tree. For root commits, it
// reports whether scope is non-empty in the tree.
func (w *Walker) ChangesPathScope(commit objectstore.Commit, scope Scope) (bool, error) {
	if len(commit.ParentIDs) == 0 {
		if scope.IsWholeRepo() {
			return true, nil
		}
		subtree, err := w.store.SubtreeID(commit.TreeID, scope.Subdirectory)
		if err != nil {
			return false, fmt.Errorf("resolving subtree for root commit %s: %w", commit.ID, err)
		}
		if len(scope.Filters) == 0 {
			return subtree != "", nil
		}
		paths, err := w.collectAllPaths(commit.TreeID, "")
		if err != nil {
			return false, err
		}
		for _, p := range paths {
			if scope.InScope(p) {
				return true, nil
			}
		}
		return false, nil
	}

	for _, parentID := range commit.ParentIDs {
		parent, err := w.store.ReadCommit(parentID)
		if err != nil {
			return false, fmt.Errorf("reading parent %s of %s: %w", parentID, commit.ID, err)
		}
		changed, err := w.changedAgainstParent(commit, parent, scope)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}
	}
	return true, nil
}

// changedAgainstParent reports whether any in-scope file differs between
// commit and a single parent.
func (w *Walker) changedAgainstParent(commit, parent objectstore.Commit, scope Scope) (bool, error) {
	if scope.IsWholeRepo() {
		return commit.TreeID != parent.TreeID, nil
	}

	if len(scope.Filters) == 0 {
		a, err := w.store.SubtreeID(commit.TreeID, scope.Subdirectory)
		if err != nil {
			return false, fmt.Errorf("resolving subtree %q at %s: %w", scope.Subdirectory, commit.ID, err)
		}
		b, err := w.store.SubtreeID(parent.TreeID, scope.Subdirectory)
		if err != nil {
			return false, fmt.Errorf("resolving subtree %q at %s: %w", scope.Subdirectory, parent.ID, err)
		}
		return a != b, nil
	}

	paths, err := w.diffPaths(commit.TreeID, parent.TreeID, "")
	if err != nil {
		return false, fmt.Errorf("diffing %s against parent %s: %w", commit.ID, parent.ID, err)
	}
	for _, p := range paths {
		if scope.InScope(p) {
			return true, nil
		}
	}
	return false, nil
}

// diffPaths returns every path that differs between the trees rooted at
// idA and idB, recursively, fast-skipping subtrees whose ids are equal.
func (w *Walker) diffPaths(idA, idB, prefix string) ([]string, error) {
	if idA == idB {
		return nil, nil
	}

	entriesA, err := readTreeOrEmpty(w.store, idA)
	if err != nil {
		return nil, err
	}
	entriesB, err := readTreeOrEmpty(w.store, idB)
	if err != nil {
		return nil, err
	}

	byName := func(entries []objectstore.TreeEntry) map[string]objectstore.TreeEntry {
		m := make(map[string]objectstore.TreeEntry, len(entries))
		for _, e := range entries {
			m[e.Name] = e
		}
		return m
	}
	mapA, mapB := byName(entriesA), byName(entriesB)

	names := map[string]bool{}
	for n := range mapA {
		names[n] = true
	}
	for n := range mapB {
		names[n] = true
	}

	var out []string
	for name := range names {
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		eA, okA := mapA[name]
		eB, okB := mapB[name]

		switch {
		case !okA || !okB:
			var present objectstore.TreeEntry
			if okA {
				present = eA
			} else {
				present = eB
			}
			if present.Kind == objectstore.KindTree {
				sub, err := w.collectAllPaths(present.TargetID, p)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			} else {
				out = append(out, p)
			}
		case eA.Kind == objectstore.KindTree && eB.Kind == objectstore.KindTree:
			sub, err := w.diffPaths(eA.TargetID, eB.TargetID, p)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case eA.Kind == objectstore.KindSubmodule && eB.Kind == objectstore.KindSubmodule:
			// Submodules are opaque blob identity;
			// never recurse into them.
			if eA.TargetID != eB.TargetID {
				out = append(out, p)
			}
		case eA.TargetID != eB.TargetID || eA.Kind != eB.Kind:
			out = append(out, p)
		}
	}
	return out, nil
}

// collectAllPaths lists every file path beneath the tree rooted at id.
func (w *Walker) collectAllPaths(id, prefix string) ([]string, error) {
	entries, err := w.store.ReadTree(id)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", id, err)
	}
	var out []string
	for _, e := range entries {
		p := e.Name
		if prefix != "" {
			p = prefix + "/" + e.Name
		}
		if e.Kind == objectstore.KindTree {
			sub, err := w.collectAllPaths(e.TargetID, p)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		} else {
			out = append(out, p)
		}
	}
	return out, nil
}

func readTreeOrEmpty(store objectstore.Store, id string) ([]objectstore.TreeEntry, error) {
	if id == "" {
		return nil, nil
	}
	entries, err := store.ReadTree(id)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", id, err)
	}
	return entries, nil
}
