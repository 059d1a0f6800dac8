package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.2.3-beta.{height}+deadbeef")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, v.Components)
	assert.Equal(t, "beta.{height}", v.Prerelease)
	assert.Equal(t, "deadbeef", v.BuildMetadata)
	assert.True(t, v.HasHeightMacro())
}

func TestParse_RejectsMacroInNumericComponents(t *testing.T) {
	_, err := Parse("1.{height}")
	require.Error(t, err)
}

func TestParse_RejectsMacroEmbeddedInIdentifier(t *testing.T) {
	_, err := Parse("1.2-beta{height}")
	require.Error(t, err)
}

func TestResolveHeight(t *testing.T) {
	v, err := Parse("1.2-beta.{height}")
	require.NoError(t, err)
	resolved := v.ResolveHeight(42)
	assert.Equal(t, "beta.42", resolved.Prerelease)
	assert.Equal(t, "1.2-beta.42", resolved.String())
}

func TestBaseSignature_IgnoresHeightMacro(t *testing.T) {
	a, err := Parse("1.2-beta.{height}")
	require.NoError(t, err)
	b, err := Parse("1.2-beta")
	require.NoError(t, err)
	assert.Equal(t, a.BaseSignature(), b.BaseSignature())
}

func TestBaseSignature_DiffersOnMajorMinor(t *testing.T) {
	a, _ := Parse("1.2")
	b, _ := Parse("1.3")
	assert.NotEqual(t, a.BaseSignature(), b.BaseSignature())
}

func TestNumericString(t *testing.T) {
	v, err := Parse("4.8.1.2")
	require.NoError(t, err)
	assert.Equal(t, "4.8.1.2", v.NumericString())
	assert.Equal(t, int64(4), v.Major())
	assert.Equal(t, int64(8), v.Minor())
	assert.Equal(t, int64(1), v.Build())
	assert.Equal(t, int64(2), v.Revision())
}

func TestBuildRevision_AbsentWhenNotSpecified(t *testing.T) {
	v, err := Parse("4.8")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.Build())
	assert.Equal(t, int64(-1), v.Revision())
}
