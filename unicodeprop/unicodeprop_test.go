package unicodeprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyDecimalDigits(t *testing.T) {
	s, err := Property("Nd")
	require.NoError(t, err)
	assert.True(t, s.Contains('0'))
	assert.True(t, s.Contains('9'))
	assert.False(t, s.Contains('a'))
}

func TestPropertyLetterGroup(t *testing.T) {
	s, err := Property("L")
	require.NoError(t, err)
	assert.True(t, s.Contains('a'))
	assert.True(t, s.Contains('Z'))
	assert.False(t, s.Contains('0'))
}

func TestPropertyScript(t *testing.T) {
	s, err := Property("Greek")
	require.NoError(t, err)
	assert.True(t, s.Contains('α'))
	assert.False(t, s.Contains('a'))
}

func TestPropertyBinary(t *testing.T) {
	s, err := Property("White_Space")
	require.NoError(t, err)
	assert.True(t, s.Contains(' '))
	assert.False(t, s.Contains('x'))
}

func TestPropertyComposite(t *testing.T) {
	s, err := Property("Alnum")
	require.NoError(t, err)
	assert.True(t, s.Contains('a'))
	assert.True(t, s.Contains('9'))
	assert.False(t, s.Contains(' '))
}

func TestPropertyUnknown(t *testing.T) {
	_, err := Property("NotAProperty")
	require.Error(t, err)
	var unknown *UnknownPropertyError
	assert.ErrorAs(t, err, &unknown)
}
