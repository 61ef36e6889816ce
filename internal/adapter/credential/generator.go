// Package credential generates and hashes account passwords.
package credential

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// MinLength is the shortest password the generator will produce.
const MinLength = 8

const (
	lower   = "abcdefghijkmnopqrstuvwxyz"
	upper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digits  = "23456789"
	symbols = "!@#$%^&*-_=+?"
)

var classes = []string{lower, upper, digits, symbols}

var alphabet = lower + upper + digits + symbols

// Compile-time check: Generator implements domain.CredentialGenerator.
var _ domain.CredentialGenerator = (*Generator)(nil)

// Generator produces random passwords containing at least one lower-case
// letter, upper-case letter, digit and symbol. Ambiguous glyphs (0/O, 1/l/I)
// are left out since the result is read from an email.
type Generator struct{}

// NewGenerator creates a password generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a plaintext password of the given length.
func (g *Generator) Generate(length int) (string, error) {
	if length < MinLength {
		return "", &domain.ValidationError{
			Field:  "length",
			Reason: fmt.Sprintf("must be at least %d", MinLength),
		}
	}

	out := make([]byte, length)
	for i, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(classes); i < length; i++ {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Fisher-Yates so the mandatory characters are not always in front.
	for i := length - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading random bytes: %w", err)
	}
	return int(v.Int64()), nil
}
