// Package security provides password strength assessment and generation
// for store entries.
package security

// Strength is the assessed strength level of a password.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthFair
	StrengthGood
	StrengthStrong
)

// String returns a human-readable representation of the strength level.
func (s Strength) String() string {
	switch s {
	case StrengthWeak:
		return "Weak"
	case StrengthFair:
		return "Fair"
	case StrengthGood:
		return "Good"
	case StrengthStrong:
		return "Strong"
	default:
		return "Unknown"
	}
}

// Assess evaluates a human-chosen password. Length is the primary factor
// per NIST SP 800-63B, which discourages composition rules: a short
// password with symbols is still weak, and a long passphrase without them
// is strong.
func Assess(password string) Strength {
	switch length := len(password); {
	case length >= 20:
		return StrengthStrong
	case length >= 14:
		return StrengthGood
	case length >= 8:
		return StrengthFair
	default:
		return StrengthWeak
	}
}
