package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword(DefaultPasswordLength, false)
		require.NoError(t, err)
		require.Len(t, pw, DefaultPasswordLength)

		assert.True(t, strings.ContainsAny(pw, lowerChars), pw)
		assert.True(t, strings.ContainsAny(pw, upperChars), pw)
		assert.True(t, strings.ContainsAny(pw, digitChars), pw)
		assert.True(t, strings.ContainsAny(pw, symbolChars), pw)
	}
}

func TestGeneratePassword_Simple(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := GeneratePassword(8, true)
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(pw, symbolChars), pw)
		assert.True(t, strings.ContainsAny(pw, digitChars), pw)
	}
}

func TestGeneratePassword_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		pw, err := GeneratePassword(DefaultPasswordLength, false)
		require.NoError(t, err)
		assert.False(t, seen[pw])
		seen[pw] = true
	}
}

func TestGeneratePassword_TooShort(t *testing.T) {
	_, err := GeneratePassword(3, false)
	assert.Error(t, err)

	pw, err := GeneratePassword(3, true)
	require.NoError(t, err)
	assert.Len(t, pw, 3)
}
