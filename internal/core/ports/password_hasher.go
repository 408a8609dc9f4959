package ports

// PasswordHasher is the credential verifier. Compare reports a mismatch as
// false, never as an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}
