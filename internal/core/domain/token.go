package domain

import "time"

// TokenClaims is the payload embedded in every access and refresh token.
// Role is a snapshot taken at issuance and is not authoritative.
type TokenClaims struct {
	UserID    string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

// ClaimsFor snapshots u into a claim set. ExpiresAt is filled in by the issuer.
func ClaimsFor(u *User) TokenClaims {
	return TokenClaims{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// TokenPair is returned on successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
