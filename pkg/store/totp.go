package store

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
)

// TOTPCode computes the current time-based one-time code for an entry's
// stored secret. The secret is kept verbatim in the entry and normalized
// here, at the point of use.
func TOTPCode(secret string, at time.Time) (string, error) {
	normalized, ok := NormalizeTOTPSecret(secret)
	if !ok {
		return "", fmt.Errorf("%w: totp secret is empty", ErrEmptyInput)
	}
	code, err := totp.GenerateCode(normalized, at)
	if err != nil {
		return "", fmt.Errorf("store: failed to generate totp code: %w", err)
	}
	return code, nil
}
