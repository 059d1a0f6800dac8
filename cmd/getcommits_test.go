package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/testutil"
	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

func TestParseVersionQuery_Decimal(t *testing.T) {
	v, err := parseVersionQuery("5.8.7.9")
	require.NoError(t, err)
	assert.Equal(t, versionnumber.Version{Major: 5, Minor: 8, Build: 7, Revision: 9}, v)
}

func TestParseVersionQuery_HexRevision(t *testing.T) {
	v, err := parseVersionQuery("5.8.7.9F3C")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x9F3C), v.Revision)
}

func TestParseVersionQuery_TwoComponents(t *testing.T) {
	v, err := parseVersionQuery("1.2")
	require.NoError(t, err)
	assert.Equal(t, versionnumber.Version{Major: 1, Minor: 2}, v)
}

func TestParseVersionQuery_Invalid(t *testing.T) {
	for _, s := range []string{"", "1", "1.2.3.4.5", "1.x", "1.2.zz"} {
		_, err := parseVersionQuery(s)
		require.Error(t, err, "input %q", s)
		assert.True(t, errorkind.Is(err, errorkind.VersionSpecFormat), "input %q", s)
	}
}

func TestGetCommits_RoundTrip(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0"}`)
	repo.Commit("seed", "version.json")
	head := repo.AddCommit("a.txt", "second")

	stdout, _ := withTestContext(t, repo.Path())

	// The stamped version of HEAD: height 2, revision = first two id bytes
	// with the high bit masked off.
	n, err := strconv.ParseUint(head[:4], 16, 32)
	require.NoError(t, err)
	query := fmt.Sprintf("1.0.2.%d", uint16(n)&^0x8000)
	require.NoError(t, getCommitsRunE(nil, []string{query}))

	lines := strings.Fields(stdout.String())
	require.NotEmpty(t, lines, "HEAD must be recoverable from its own stamp")
	assert.Contains(t, lines, head)
}

func TestGetCommits_NoMatches(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0"}`)
	repo.Commit("seed", "version.json")

	stdout, stderr := withTestContext(t, repo.Path())
	prev := flagQuiet
	flagQuiet = false
	defer func() { flagQuiet = prev }()

	require.NoError(t, getCommitsRunE(nil, []string{"9.9.9.0"}))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no commits")
}
