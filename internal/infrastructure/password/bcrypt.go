package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps a single comparison in the tens of milliseconds.
const DefaultCost = 10

// Bcrypt hashes with a random per-call salt; two hashes of the same input
// never match byte for byte.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Compare runs the full key derivation and a constant-time comparison. A
// malformed digest compares as false.
func (b *Bcrypt) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
