package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScaledIntStripsTrailingZ(t *testing.T) {
	n, err := ParseScaledInt("595000z")
	require.NoError(t, err)
	assert.Equal(t, int64(595000), n)
}

func TestParseScaledIntPlain(t *testing.T) {
	n, err := ParseScaledInt("72000")
	require.NoError(t, err)
	assert.Equal(t, int64(72000), n)
}

func TestParseScaledIntRejectsGarbage(t *testing.T) {
	_, err := ParseScaledInt("abc")
	require.Error(t, err)
}

func TestIsTerminator(t *testing.T) {
	assert.True(t, IsTerminator(""))
	assert.False(t, IsTerminator("x init"))
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment("+continuation"))
	assert.False(t, IsComment("x init"))
}
