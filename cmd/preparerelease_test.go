package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/release"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

func releaseReadyStore() *objectstore.FakeStore {
	store := objectstore.NewFakeStore()
	store.Head = "refs/heads/main"
	store.HeadCommit = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	store.Refs["refs/heads/main"] = store.HeadCommit
	store.UserName = "Dev"
	store.UserEmail = "dev@example.com"
	return store
}

func TestPlanInput_GathersRepositoryState(t *testing.T) {
	store := releaseReadyStore()
	store.Refs["refs/heads/v1.2"] = store.HeadCommit
	opts := &versionfile.VersionOptions{Version: "1.2-beta.{height}"}

	withTestContext(t, ".")

	input, err := planInput(store, opts, "rc")
	require.NoError(t, err)

	assert.Equal(t, "main", input.HeadBranch)
	assert.False(t, input.HasUncommittedChanges)
	assert.True(t, input.ExistingBranches["v1.2"])
	assert.True(t, input.UserNameConfigured)
	assert.True(t, input.UserEmailConfigured)
	assert.Equal(t, "rc", input.Tag)
}

func TestPlanInput_ThenPlanRelease(t *testing.T) {
	store := releaseReadyStore()
	opts := &versionfile.VersionOptions{
		Version: "1.2-beta.{height}",
		Release: &versionfile.ReleaseOptions{
			BranchName:        "release/v{version}",
			VersionIncrement:  versionfile.IncrementMinor,
			FirstUnstableTag:  "alpha",
			VersionFieldCount: 2,
		},
	}

	withTestContext(t, ".")

	input, err := planInput(store, opts, "")
	require.NoError(t, err)
	plan, err := release.PlanRelease(input)
	require.NoError(t, err)

	assert.Equal(t, "release/v1.2", plan.ReleaseBranchName)
	assert.Equal(t, "1.3-alpha", plan.NextVersion.String())
}

func TestPlanInput_ExplicitNextVersion(t *testing.T) {
	store := releaseReadyStore()
	opts := &versionfile.VersionOptions{Version: "1.2"}

	withTestContext(t, ".")
	prev := flagNextVersion
	flagNextVersion = "2.0"
	defer func() { flagNextVersion = prev }()

	input, err := planInput(store, opts, "")
	require.NoError(t, err)
	require.NotNil(t, input.NextVersion)
	assert.Equal(t, "2.0", input.NextVersion.String())
}
