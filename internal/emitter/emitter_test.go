package emitter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-gitversioning/gitversioning/internal/emitter"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
)

func sample() oracle.VersionArtifacts {
	return oracle.VersionArtifacts{
		Version:          "1.2.3",
		SemVer2:          "1.2.3",
		GitVersionHeight: 7,
		PublicRelease:    true,
	}
}

func TestEmit_Go_ContainsConstDeclarations(t *testing.T) {
	out, err := emitter.Emit(sample(), emitter.LanguageGo)
	require.NoError(t, err)
	assert.Contains(t, string(out), `Version = "1.2.3"`)
	assert.Contains(t, string(out), "GitVersionHeight = 7")
	assert.Contains(t, string(out), "PublicRelease = true")
	assert.Contains(t, string(out), "package version")
}

func TestEmit_JSON_RoundTrips(t *testing.T) {
	out, err := emitter.Emit(sample(), emitter.LanguageJSON)
	require.NoError(t, err)

	var parsed oracle.VersionArtifacts
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, "1.2.3", parsed.Version)
}

func TestEmit_YAML_RoundTrips(t *testing.T) {
	out, err := emitter.Emit(sample(), emitter.LanguageYAML)
	require.NoError(t, err)

	var parsed oracle.VersionArtifacts
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, "1.2.3", parsed.Version)
}

func TestEmit_UnsupportedLanguageErrors(t *testing.T) {
	_, err := emitter.Emit(sample(), emitter.Language("cobol"))
	assert.Error(t, err)
}
