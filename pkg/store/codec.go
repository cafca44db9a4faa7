package store

import (
	"strings"
	"unicode"
)

// recoveryHeaders open a recovery-code block, matched case-insensitively
// against the trimmed line.
var recoveryHeaders = []string{
	"recovery codes:",
	"recovery codes",
	"backup codes:",
	"backup codes",
}

// usernamePrefixes are matched case-insensitively at the start of a
// trimmed line; the value is everything after the first colon.
var usernamePrefixes = []string{"username:", "user:", "login:"}

// urlPrefixes classify a line as the entry URL.
var urlPrefixes = []string{"http://", "https://", "www."}

// ParseContent parses a decrypted entry blob into structured fields.
//
// Line 0 is always the password, kept verbatim. Every following non-blank
// line is classified by the first matching rule: recovery-code header,
// recovery code (while a block is open), username, totp secret, URL, and
// finally notes. Username, totp and URL are first-wins; later matches are
// dropped, not demoted to notes, so that serialized output parses back to
// the same fields. A line inside a recovery block that does not look like
// a code closes the block and is re-classified by the remaining rules.
func ParseContent(blob string) Fields {
	var f Fields
	if blob == "" {
		return f
	}

	lines := strings.Split(blob, "\n")
	f.Password = lines[0]

	var (
		notes        []string
		inRecovery   bool
		haveUsername bool
		haveTOTP     bool
		haveURL      bool
	)

	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if trimmed != "" && isRecoveryHeader(lower) {
			inRecovery = true
			continue
		}

		if inRecovery {
			if trimmed != "" && looksLikeRecoveryCode(trimmed) {
				f.RecoveryCodes = append(f.RecoveryCodes, stripRecoveryPrefix(trimmed))
				continue
			}
			// Block closed; the line falls through to the rules below.
			inRecovery = false
		}

		if trimmed == "" {
			notes = append(notes, "")
			continue
		}

		if value, ok := matchPrefixValue(trimmed, lower, usernamePrefixes); ok {
			if !haveUsername {
				f.Username = value
				haveUsername = true
			}
			continue
		}

		if value, ok := matchPrefixValue(trimmed, lower, []string{"totp:"}); ok {
			if !haveTOTP {
				f.TOTPSecret = value
				haveTOTP = true
			}
			continue
		}

		if hasAnyPrefix(lower, urlPrefixes) {
			if !haveURL {
				f.URL = trimmed
				haveURL = true
			}
			continue
		}

		notes = append(notes, line)
	}

	f.Notes = joinNotes(notes)
	return f
}

// SerializeContent is the inverse construction: password first, then
// username, URL and totp lines, then a recovery-code block, then notes.
// Output of this serializer always parses back to the same fields;
// arbitrary input is not guaranteed a byte-identical round trip.
func SerializeContent(f Fields) string {
	lines := []string{f.Password}

	if f.Username != "" {
		lines = append(lines, "username: "+f.Username)
	}
	if f.URL != "" {
		lines = append(lines, f.URL)
	}
	if f.TOTPSecret != "" {
		lines = append(lines, "totp: "+f.TOTPSecret)
	}
	if len(f.RecoveryCodes) > 0 {
		lines = append(lines, "", "Recovery Codes:")
		for _, code := range f.RecoveryCodes {
			lines = append(lines, "- "+code)
		}
	}
	if f.Notes != "" {
		lines = append(lines, "", f.Notes)
	}

	return strings.Join(lines, "\n")
}

// NormalizeTOTPSecret canonicalizes a totp seed to Base32: uppercase,
// spaces/hyphens/underscores stripped, any character outside [A-Z2-7]
// dropped, '=' padded to a multiple of 8. Returns false if nothing
// survives normalization.
func NormalizeTOTPSecret(secret string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(secret) {
		if (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7') {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if normalized == "" {
		return "", false
	}
	if rem := len(normalized) % 8; rem != 0 {
		normalized += strings.Repeat("=", 8-rem)
	}
	return normalized, true
}

func isRecoveryHeader(lower string) bool {
	for _, h := range recoveryHeaders {
		if lower == h {
			return true
		}
	}
	return false
}

// looksLikeRecoveryCode reports whether a trimmed, non-blank line inside a
// recovery block is a code: bulleted with '-', '*' or '•', or starting
// with a digit.
func looksLikeRecoveryCode(trimmed string) bool {
	r := []rune(trimmed)[0]
	return r == '-' || r == '*' || r == '•' || unicode.IsDigit(r)
}

// stripRecoveryPrefix removes the leading bullet or "1."/"2)" style number
// prefix from a code line. A bare code that merely starts with a digit
// (e.g. "1234-5678") is kept whole.
func stripRecoveryPrefix(trimmed string) string {
	if rest := strings.TrimLeft(trimmed, "-*• \t"); rest != trimmed {
		return strings.TrimSpace(rest)
	}

	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	j := i
	for j < len(trimmed) && (trimmed[j] == '.' || trimmed[j] == ')' || trimmed[j] == ':') {
		j++
	}
	// Only a "1." / "2)" style marker counts as a prefix; without the
	// punctuation the digits are part of the code itself.
	if j > i && j < len(trimmed) {
		return strings.TrimSpace(trimmed[j:])
	}
	return trimmed
}

func matchPrefixValue(trimmed, lower string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			idx := strings.Index(trimmed, ":")
			return strings.TrimSpace(trimmed[idx+1:]), true
		}
	}
	return "", false
}

func hasAnyPrefix(lower string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// joinNotes joins note lines and trims leading/trailing blank lines,
// preserving interior blanks.
func joinNotes(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
