package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

const (
	Length   = 6
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate - produces a random room code, each character drawn uniformly from Alphabet.
// Uniqueness is not guaranteed here, the registry enforces it on creation.
func Generate() (string, error) {
	limit := big.NewInt(int64(len(Alphabet)))

	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}

	return string(b), nil
}

// Normalize - trims whitespace and upper-cases the code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate - checks that code is exactly Length upper-case letters or digits.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("%w: %q must be %d characters", apperror.ErrMalformedCode, code, Length)
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("%w: %q has invalid character %q", apperror.ErrMalformedCode, code, c)
		}
	}

	return nil
}
