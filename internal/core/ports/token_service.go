package ports

import "github.com/99minutos/auth-service/internal/core/domain"

// TokenService issues and verifies the two token classes. Verification is
// boolean-with-payload: a bad signature, an expired token and a malformed
// token all yield ok == false.
type TokenService interface {
	IssueAccess(claims domain.TokenClaims) (string, error)
	IssueRefresh(claims domain.TokenClaims) (string, error)
	VerifyAccess(token string) (domain.TokenClaims, bool)
	VerifyRefresh(token string) (domain.TokenClaims, bool)
	// Rotate mints a new access token from the refresh token alone; the
	// presented access token is not inspected.
	Rotate(accessToken, refreshToken string) (string, error)
}
