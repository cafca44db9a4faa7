package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	generateLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	generateDigits  = "0123456789"
	generateSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	// DefaultGeneratedLength comfortably lands in the Strong band.
	DefaultGeneratedLength = 25
)

// Generate produces a random password of the given length from letters and
// digits, plus symbols when includeSymbols is set. Randomness comes from
// crypto/rand; length must be positive.
func Generate(length int, includeSymbols bool) (string, error) {
	if length <= 0 {
		return "", errors.New("security: generated password length must be positive")
	}

	alphabet := generateLetters + generateDigits
	if includeSymbols {
		alphabet += generateSymbols
	}

	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
