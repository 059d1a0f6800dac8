package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/buildcontext"
	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/testutil"
)

// withTestContext points the command globals at a throwaway repository and
// captured streams, restoring everything afterward.
func withTestContext(t *testing.T, repoPath string) (stdout, stderr *bytes.Buffer) {
	t.Helper()

	prevPath, prevProject, prevCtx := flagPath, flagProject, buildCtx
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	flagPath = repoPath
	flagProject = ""
	buildCtx = buildcontext.Context{Env: map[string]string{}, Stdout: stdout, Stderr: stderr}

	t.Cleanup(func() {
		flagPath, flagProject, buildCtx = prevPath, prevProject, prevCtx
	})
	return stdout, stderr
}

func TestGetVersion_TextOutput(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.2"}`)
	repo.Commit("seed", "version.json")
	repo.AddCommit("a.txt", "second")

	stdout, _ := withTestContext(t, repo.Path())
	flagVariable, flagFormat = "", "text"

	require.NoError(t, getVersionRunE(nil, nil))

	out := stdout.String()
	assert.Contains(t, out, "SimpleVersion=1.2.2\n")
	assert.Contains(t, out, "MajorMinorVersion=1.2\n")
	assert.Contains(t, out, "GitCommitId="+repo.HeadSha()+"\n")
}

func TestGetVersion_JSONOutput(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.2"}`)
	repo.Commit("seed", "version.json")

	stdout, _ := withTestContext(t, repo.Path())
	flagVariable, flagFormat = "", "json"
	defer func() { flagFormat = "text" }()

	require.NoError(t, getVersionRunE(nil, nil))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "1.2.1", decoded["SimpleVersion"])
}

func TestGetVersion_SingleVariable(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"3.1"}`)
	repo.Commit("seed", "version.json")

	stdout, _ := withTestContext(t, repo.Path())
	flagVariable = "MajorMinorVersion"
	defer func() { flagVariable = "" }()

	require.NoError(t, getVersionRunE(nil, nil))
	assert.Equal(t, "3.1\n", stdout.String())
}

func TestGetVersion_UnknownVariable(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"3.1"}`)
	repo.Commit("seed", "version.json")

	withTestContext(t, repo.Path())
	flagVariable = "NoSuchVariable"
	defer func() { flagVariable = "" }()

	err := getVersionRunE(nil, nil)
	require.Error(t, err)
	assert.True(t, errorkind.Is(err, errorkind.UnknownVariable))
}

func TestGetVersion_ExplicitCommittish(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0"}`)
	first := repo.Commit("seed", "version.json")
	repo.AddCommit("a.txt", "second")

	stdout, _ := withTestContext(t, repo.Path())
	flagVariable, flagFormat = "", "text"

	require.NoError(t, getVersionRunE(nil, []string{first}))
	assert.Contains(t, stdout.String(), "SimpleVersion=1.0.1\n")
}

func TestGetVersion_ShallowCloneIsDistinctError(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.0"}`)
	repo.Commit("seed", "version.json")
	repo.MarkShallow()

	withTestContext(t, repo.Path())
	flagVariable, flagFormat = "", "text"

	err := getVersionRunE(nil, []string{"feedfacefeedfacefeedfacefeedfacefeedface"})
	require.Error(t, err)
	assert.True(t, errorkind.Is(err, errorkind.ShallowClone))
}

func TestGetVersion_EmitGoSource(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.2"}`)
	repo.Commit("seed", "version.json")

	stdout, _ := withTestContext(t, repo.Path())
	flagVariable, flagFormat = "", "text"
	flagEmitLang = "go"
	defer func() { flagEmitLang = "" }()

	require.NoError(t, getVersionRunE(nil, nil))

	out := stdout.String()
	assert.Contains(t, out, "package version")
	assert.Contains(t, out, `SimpleVersion = "1.2.1"`)
	assert.Contains(t, out, "GitVersionHeight = 1")
}

func TestGetVersion_EmitToFile(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("version.json", `{"version":"1.2"}`)
	repo.Commit("seed", "version.json")

	withTestContext(t, repo.Path())
	target := filepath.Join(t.TempDir(), "version.json")
	flagEmitLang, flagEmitPath = "json", target
	defer func() { flagEmitLang, flagEmitPath = "", "" }()

	require.NoError(t, getVersionRunE(nil, nil))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "1.2.1", decoded["SimpleVersion"])
}
