package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"", StrengthWeak},
		{"short", StrengthWeak},
		{"8chars!!", StrengthFair},
		{"thirteen-char", StrengthFair},
		{"fourteen-chars", StrengthGood},
		{"a really long passphrase", StrengthStrong},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Assess(tt.password), "password %q", tt.password)
	}
}

func TestStrengthString(t *testing.T) {
	assert.Equal(t, "Weak", StrengthWeak.String())
	assert.Equal(t, "Strong", StrengthStrong.String())
	assert.Equal(t, "Unknown", Strength(42).String())
}

func TestGenerateLengthAndAlphabet(t *testing.T) {
	pw, err := Generate(32, false)
	require.NoError(t, err)
	assert.Len(t, pw, 32)

	for _, r := range pw {
		assert.True(t, strings.ContainsRune(generateLetters+generateDigits, r), "unexpected rune %q", r)
	}
}

func TestGenerateDiffersBetweenCalls(t *testing.T) {
	a, err := Generate(DefaultGeneratedLength, true)
	require.NoError(t, err)
	b, err := Generate(DefaultGeneratedLength, true)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateRejectsBadLength(t *testing.T) {
	_, err := Generate(0, true)
	assert.Error(t, err)
	_, err = Generate(-3, false)
	assert.Error(t, err)
}
