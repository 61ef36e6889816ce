package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

// Compile-time check: BcryptHasher implements domain.PasswordHasher.
var _ domain.PasswordHasher = (*BcryptHasher)(nil)

// MinCost is the cheapest accepted bcrypt cost.
const MinCost = bcrypt.MinCost

// BcryptHasher hashes passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost of zero selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
