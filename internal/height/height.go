// Package height computes version height: the length of the ancestor
// chain that shares a commit's base version signature.
package height

import (
	"fmt"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

// ConfigAt resolves the effective version configuration at a commit,
// given the project subdirectory. Computing it is the caller's
// responsibility (via versionfile.DiscoverAtCommit) because it is shared
// between height computation and the oracle; Engine takes it as an
// injected function to keep the memoized walk side-effect free per step.
type ConfigAt func(commitID string) (*versionfile.VersionOptions, error)

// Engine computes version height with DFS memoization keyed on
// (commit id, reference signature); the path scope is fixed for the
// lifetime of an Engine.
type Engine struct {
	store    objectstore.Store
	walker   *pathscope.Walker
	configAt ConfigAt
	scope    pathscope.Scope
	memo     map[memoKey]int
}

type memoKey struct {
	commitID  string
	signature semver.Signature
}

// NewEngine creates a height Engine over store, using configAt to load the
// version configuration at each visited commit and scope to determine
// which tree changes count.
func NewEngine(store objectstore.Store, configAt ConfigAt, scope pathscope.Scope) *Engine {
	return &Engine{
		store:    store,
		walker:   pathscope.NewWalker(store),
		configAt: configAt,
		scope:    scope,
		memo:     make(map[memoKey]int),
	}
}

// Height computes the version height of commitID relative to
// referenceSignature, the base version signature of the commit the caller
// is computing height for.
func (e *Engine) Height(commitID string, referenceSignature semver.Signature) (int, error) {
	return e.height(commitID, referenceSignature, nil)
}

// visiting guards against cycles in malformed histories; a real DAG
// never triggers it.
func (e *Engine) height(commitID string, referenceSignature semver.Signature, visiting map[string]bool) (int, error) {
	key := memoKey{commitID: commitID, signature: referenceSignature}
	if h, ok := e.memo[key]; ok {
		return h, nil
	}
	if visiting == nil {
		visiting = make(map[string]bool)
	}
	if visiting[commitID] {
		return 0, errorkind.New(errorkind.Internal, fmt.Errorf("cycle detected walking ancestors of %s", commitID))
	}
	visiting[commitID] = true
	defer delete(visiting, commitID)

	opts, err := e.configAt(commitID)
	if err != nil {
		return 0, err
	}
	if opts == nil {
		return 0, nil
	}
	sv, err := opts.ParsedVersion()
	if err != nil {
		// inherit=true with no resolvable version base: treat as outside
		// lineage rather than propagating a format error up the walk.
		return 0, nil
	}
	if sv.BaseSignature() != referenceSignature {
		e.memo[key] = 0
		return 0, nil
	}

	commit, err := e.store.ReadCommit(commitID)
	if err != nil {
		return 0, fmt.Errorf("reading commit %s: %w", commitID, err)
	}

	if len(commit.ParentIDs) == 0 {
		e.memo[key] = 1
		return 1, nil
	}

	max := 0
	for _, parentID := range commit.ParentIDs {
		h, err := e.height(parentID, referenceSignature, visiting)
		if err != nil {
			return 0, err
		}
		if h > max {
			max = h
		}
	}

	changed, err := e.walker.ChangesPathScope(commit, e.scope)
	if err != nil {
		return 0, fmt.Errorf("checking scope at %s: %w", commitID, err)
	}

	result := max
	if changed {
		result = max + 1
	}
	e.memo[key] = result
	return result, nil
}
