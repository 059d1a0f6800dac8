package versionfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

func TestParseJSON_ValidDocument(t *testing.T) {
	opts, err := versionfile.ParseJSON([]byte(`{"version": "1.2.3-beta.{height}"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta.{height}", opts.Version)
}

func TestParseJSON_RejectsBadVersionPattern(t *testing.T) {
	_, err := versionfile.ParseJSON([]byte(`{"version": "not-a-version"}`), "")
	require.Error(t, err)
	kind, ok := errorkind.As(err)
	require.True(t, ok)
	assert.Equal(t, errorkind.ConfigFormat, kind)
}

func TestParseJSON_InheritWithoutVersionIsValid(t *testing.T) {
	opts, err := versionfile.ParseJSON([]byte(`{"inherit": true}`), "")
	require.NoError(t, err)
	assert.Empty(t, opts.Version)
}

func TestParseJSON_AttachesCommitIDToFormatError(t *testing.T) {
	_, err := versionfile.ParseJSON([]byte(`not json`), "deadbeef")
	require.Error(t, err)
	var e *errorkind.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "deadbeef", e.CommitID)
}

func TestParseLegacyText_MajorMinorOnly(t *testing.T) {
	opts, err := versionfile.ParseLegacyText([]byte("1.2\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "1.2", opts.Version)
}

func TestParseLegacyText_PrereleaseLineWithoutLeadingHyphen(t *testing.T) {
	opts, err := versionfile.ParseLegacyText([]byte("1.2.3\nbeta\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta", opts.Version)
}

func TestParseLegacyText_PrereleaseLineWithLeadingHyphen(t *testing.T) {
	opts, err := versionfile.ParseLegacyText([]byte("1.2.3\n-beta\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta", opts.Version)
}

func TestMerge_ChildWinsOverParent(t *testing.T) {
	child := &versionfile.VersionOptions{Version: "2.0.0"}
	parent := &versionfile.VersionOptions{
		Version:     "1.0.0",
		PathFilters: []string{"src"},
	}

	merged, err := versionfile.Merge(child, parent)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", merged.Version)
	assert.Equal(t, []string{"src"}, merged.PathFilters)
}
