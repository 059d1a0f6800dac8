package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
	"github.com/go-gitversioning/gitversioning/internal/output"
)

func sampleArtifacts() oracle.VersionArtifacts {
	return oracle.VersionArtifacts{
		Version:    "1.2.3",
		SemVer1:    "1.2.3",
		SemVer2:    "1.2.3",
		GitCommitID: "abc123",
	}
}

func TestWriteText_WritesKeyValueLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteText(&buf, sampleArtifacts()))
	assert.Contains(t, buf.String(), "Version=1.2.3\n")
	assert.Contains(t, buf.String(), "GitCommitId=abc123\n")
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteJSON(&buf, sampleArtifacts()))

	var parsed oracle.VersionArtifacts
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "1.2.3", parsed.Version)
}

func TestWriteVariable_Known(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.WriteVariable(&buf, sampleArtifacts(), "SemVer2"))
	assert.Equal(t, "1.2.3\n", buf.String())
}

func TestWriteVariable_Unknown(t *testing.T) {
	var buf bytes.Buffer
	err := output.WriteVariable(&buf, sampleArtifacts(), "NotAField")
	assert.True(t, errorkind.Is(err, errorkind.UnknownVariable))
}

func TestWriteVariable_NumericAndBooleanArtifacts(t *testing.T) {
	artifacts := sampleArtifacts()
	artifacts.GitVersionHeight = 12
	artifacts.BuildNumber = 12
	artifacts.PublicRelease = true

	var buf bytes.Buffer
	require.NoError(t, output.WriteVariable(&buf, artifacts, "GitVersionHeight"))
	assert.Equal(t, "12\n", buf.String())

	buf.Reset()
	require.NoError(t, output.WriteVariable(&buf, artifacts, "BuildNumber"))
	assert.Equal(t, "12\n", buf.String())

	buf.Reset()
	require.NoError(t, output.WriteVariable(&buf, artifacts, "PublicRelease"))
	assert.Equal(t, "true\n", buf.String())
}
