package height_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/height"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

func treeFor(store *objectstore.FakeStore, files map[string]string) string {
	var entries []objectstore.TreeEntry
	for name, blobID := range files {
		store.AddBlob(blobID, []byte("x"))
		entries = append(entries, objectstore.TreeEntry{Name: name, TargetID: blobID, Kind: objectstore.KindBlob})
	}
	treeID := "tree-" + blobSetKey(files)
	store.Trees[treeID] = entries
	return treeID
}

func blobSetKey(files map[string]string) string {
	key := ""
	for _, v := range files {
		key += v + "-"
	}
	return key
}

func TestHeight_LinearChainWithinSameLineage(t *testing.T) {
	store := objectstore.NewFakeStore()

	treeA := treeFor(store, map[string]string{"file.txt": "b1"})
	treeB := treeFor(store, map[string]string{"file.txt": "b2"})
	treeC := treeFor(store, map[string]string{"file.txt": "b3"})

	store.AddCommit(objectstore.Commit{ID: "c1", TreeID: treeA}, nil)
	store.AddCommit(objectstore.Commit{ID: "c2", ParentIDs: []string{"c1"}, TreeID: treeB}, nil)
	store.AddCommit(objectstore.Commit{ID: "c3", ParentIDs: []string{"c2"}, TreeID: treeC}, nil)

	configAt := func(id string) (*versionfile.VersionOptions, error) {
		return &versionfile.VersionOptions{Version: "1.0.0"}, nil
	}

	engine := height.NewEngine(store, configAt, pathscope.Scope{})
	sig := semver.Signature{Major: 1, Minor: 0, Build: 0}
	h, err := engine.Height("c3", sig)
	require.NoError(t, err)
	assert.Equal(t, 3, h)
}

func TestHeight_ConfigChangeStartsNewLineage(t *testing.T) {
	store := objectstore.NewFakeStore()

	treeA := treeFor(store, map[string]string{"file.txt": "b1"})
	treeB := treeFor(store, map[string]string{"file.txt": "b2"})

	store.AddCommit(objectstore.Commit{ID: "c1", TreeID: treeA}, nil)
	store.AddCommit(objectstore.Commit{ID: "c2", ParentIDs: []string{"c1"}, TreeID: treeB}, nil)

	configAt := func(id string) (*versionfile.VersionOptions, error) {
		if id == "c1" {
			return &versionfile.VersionOptions{Version: "1.0.0"}, nil
		}
		return &versionfile.VersionOptions{Version: "2.0.0"}, nil
	}

	engine := height.NewEngine(store, configAt, pathscope.Scope{})
	sig := semver.Signature{Major: 2, Minor: 0, Build: 0}
	h, err := engine.Height("c2", sig)
	require.NoError(t, err)
	assert.Equal(t, 1, h)
}

func TestHeight_RootCommitIsOne(t *testing.T) {
	store := objectstore.NewFakeStore()
	treeA := treeFor(store, map[string]string{"file.txt": "b1"})
	store.AddCommit(objectstore.Commit{ID: "c1", TreeID: treeA}, nil)

	configAt := func(id string) (*versionfile.VersionOptions, error) {
		return &versionfile.VersionOptions{Version: "1.0.0"}, nil
	}

	engine := height.NewEngine(store, configAt, pathscope.Scope{})
	sig := semver.Signature{Major: 1, Minor: 0, Build: 0}
	h, err := engine.Height("c1", sig)
	require.NoError(t, err)
	assert.Equal(t, 1, h)
}

func TestHeight_MergeCommitTakesMaxOfParents(t *testing.T) {
	store := objectstore.NewFakeStore()

	treeRoot := treeFor(store, map[string]string{"f.txt": "b0"})
	treeMain1 := treeFor(store, map[string]string{"f.txt": "b1"})
	treeMain2 := treeFor(store, map[string]string{"f.txt": "b2"})
	treeFeat := treeFor(store, map[string]string{"f.txt": "b3"})
	treeMerge := treeFor(store, map[string]string{"f.txt": "b4"})

	store.AddCommit(objectstore.Commit{ID: "root", TreeID: treeRoot}, nil)
	store.AddCommit(objectstore.Commit{ID: "main1", ParentIDs: []string{"root"}, TreeID: treeMain1}, nil)
	store.AddCommit(objectstore.Commit{ID: "main2", ParentIDs: []string{"main1"}, TreeID: treeMain2}, nil)
	store.AddCommit(objectstore.Commit{ID: "feat1", ParentIDs: []string{"root"}, TreeID: treeFeat}, nil)
	store.AddCommit(objectstore.Commit{ID: "merge", ParentIDs: []string{"main2", "feat1"}, TreeID: treeMerge}, nil)

	configAt := func(id string) (*versionfile.VersionOptions, error) {
		return &versionfile.VersionOptions{Version: "1.0.0"}, nil
	}

	engine := height.NewEngine(store, configAt, pathscope.Scope{})
	sig := semver.Signature{Major: 1, Minor: 0, Build: 0}
	h, err := engine.Height("merge", sig)
	require.NoError(t, err)
	assert.Equal(t, 4, h)
}
