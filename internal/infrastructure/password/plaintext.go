package password

import "crypto/subtle"

// Plaintext stores passwords as-is. Test harnesses only; configuration
// refuses it in production.
type Plaintext struct{}

func (Plaintext) Hash(plaintext string) (string, error) {
	return plaintext, nil
}

func (Plaintext) Compare(plaintext, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(plaintext), []byte(digest)) == 1
}
