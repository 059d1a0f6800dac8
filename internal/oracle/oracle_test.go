package oracle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/oracle"
	"github.com/go-gitversioning/gitversioning/internal/testutil"
)

func TestCreate_NoRepositoryProducesDegenerateVersion(t *testing.T) {
	dir := t.TempDir()
	artifacts, err := oracle.Create(oracle.CreateParams{RepoPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "0.0.1.0", artifacts.Version)
	assert.False(t, artifacts.PublicRelease)
}

func TestCreate_SimpleRepoProducesIncreasingHeight(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.2.0-beta.{height}"}`)
	repo.Commit("seed", "version.json")
	repo.AddCommit("a.txt", "second")
	third := repo.AddCommit("b.txt", "third")

	artifacts, err := oracle.Create(oracle.CreateParams{RepoPath: repo.Path(), Committish: third})
	require.NoError(t, err)
	assert.Equal(t, 3, artifacts.GitVersionHeight)
	assert.True(t, strings.HasPrefix(artifacts.Version, "1.2.3."), "got %s", artifacts.Version)
	assert.True(t, strings.HasPrefix(artifacts.SemVer2, "1.2.0-beta.3+g"), "got %s", artifacts.SemVer2)
	assert.Equal(t, third, artifacts.GitCommitID)
}

func TestCreate_PublicReleaseMatchesRefSpec(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0.0", "publicReleaseRefSpec": ["^refs/heads/master$"]}`)
	repo.Commit("seed", "version.json")

	artifacts, err := oracle.Create(oracle.CreateParams{RepoPath: repo.Path()})
	require.NoError(t, err)
	assert.True(t, artifacts.PublicRelease)
}

func TestCreate_AbsentRefSpecIsNeverPublic(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0.0"}`)
	repo.Commit("seed", "version.json")

	artifacts, err := oracle.Create(oracle.CreateParams{RepoPath: repo.Path()})
	require.NoError(t, err)
	assert.False(t, artifacts.PublicRelease)
}

func TestCreate_NonPublicReleaseAppendsShortCommit(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0.0", "publicReleaseRefSpec": ["^refs/heads/release$"]}`)
	repo.Commit("seed", "version.json")

	artifacts, err := oracle.Create(oracle.CreateParams{RepoPath: repo.Path()})
	require.NoError(t, err)
	assert.False(t, artifacts.PublicRelease)
	assert.Contains(t, artifacts.SemVer1, "-g")
}
