package versionnumber_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

func TestEncode_BasicValues(t *testing.T) {
	v, clamped, err := versionnumber.Encode(1, 2, 5, 0, "abcdef0123456789abcdef0123456789abcdef01")
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, uint16(1), v.Major)
	assert.Equal(t, uint16(2), v.Minor)
	assert.Equal(t, uint16(5), v.Build)
}

func TestEncode_ClampsAtBuildCeiling(t *testing.T) {
	v, clamped, err := versionnumber.Encode(1, 0, 100000, 0, "abcdef0123456789abcdef0123456789abcdef01")
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, uint16(versionnumber.BuildCeiling), v.Build)
}

func TestEncode_RevisionMasksHighBit(t *testing.T) {
	v, _, err := versionnumber.Encode(1, 0, 1, 0, "ffff000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x7fff), v.Revision)
}

func TestEncode_RejectsShortCommitID(t *testing.T) {
	_, _, err := versionnumber.Encode(1, 0, 1, 0, "ab")
	require.Error(t, err)
}
