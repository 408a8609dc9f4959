// Package password provides the credential verifier implementations. The
// implementation in use is chosen once at startup from configuration.
package password

import (
	"fmt"

	"github.com/99minutos/auth-service/internal/core/ports"
)

const (
	KindBcrypt    = "bcrypt"
	KindPlaintext = "plaintext"
)

// New returns the hasher named by kind. cost only applies to bcrypt.
func New(kind string, cost int) (ports.PasswordHasher, error) {
	switch kind {
	case "", KindBcrypt:
		return NewBcrypt(cost)
	case KindPlaintext:
		return Plaintext{}, nil
	default:
		return nil, fmt.Errorf("password: unknown hasher %q", kind)
	}
}
