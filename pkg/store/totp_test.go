package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPCodeKnownVector(t *testing.T) {
	// RFC 6238 test secret ("12345678901234567890" in Base32) at T=59s.
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	code, err := TOTPCode(secret, time.Unix(59, 0).UTC())
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestTOTPCodeNormalizesSecret(t *testing.T) {
	at := time.Unix(59, 0).UTC()

	canonical, err := TOTPCode("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", at)
	require.NoError(t, err)

	sloppy, err := TOTPCode("gezd gnbv-gy3t qojq_gezd gnbv gy3t qojq", at)
	require.NoError(t, err)
	assert.Equal(t, canonical, sloppy)
}

func TestTOTPCodeEmptySecret(t *testing.T) {
	_, err := TOTPCode("  --  ", time.Now())
	assert.ErrorIs(t, err, ErrEmptyInput)
}
