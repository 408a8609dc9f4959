// Package token implements the token service on HS256-signed JWTs. Access and
// refresh tokens share one payload shape and differ only in signing secret and
// lifetime, so a token verifies only against the secret of its own class.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// Config holds the per-class secrets and lifetimes, read once at startup.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type class struct {
	secret []byte
	ttl    time.Duration
}

// Service is safe for concurrent use; it holds no mutable state.
type Service struct {
	access  class
	refresh class
	now     func() time.Time
}

type jwtClaims struct {
	UserID   string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewService(cfg Config) (*Service, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: lifetimes must be positive")
	}
	return &Service{
		access:  class{secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: class{secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     time.Now,
	}, nil
}

func (s *Service) IssueAccess(claims domain.TokenClaims) (string, error) {
	return s.issue(s.access, claims)
}

func (s *Service) IssueRefresh(claims domain.TokenClaims) (string, error) {
	return s.issue(s.refresh, claims)
}

func (s *Service) VerifyAccess(raw string) (domain.TokenClaims, bool) {
	return s.verify(s.access, raw)
}

func (s *Service) VerifyRefresh(raw string) (domain.TokenClaims, bool) {
	return s.verify(s.refresh, raw)
}

// Rotate mints a fresh access token from the refresh token's claims. The
// access token is accepted as-is; it is usually already expired.
func (s *Service) Rotate(_ string, refreshToken string) (string, error) {
	claims, ok := s.VerifyRefresh(refreshToken)
	if !ok {
		return "", domain.ErrInvalidCredentialPair
	}
	return s.IssueAccess(claims)
}

func (s *Service) issue(c class, claims domain.TokenClaims) (string, error) {
	exp := s.now().UTC().Truncate(time.Second).Add(c.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) verify(c class, raw string) (domain.TokenClaims, bool) {
	if raw == "" {
		return domain.TokenClaims{}, false
	}

	var claims jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// exp == now counts as expired.
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC().Truncate(time.Second) }),
	)
	if err != nil || !tkn.Valid {
		return domain.TokenClaims{}, false
	}
	if claims.UserID == "" || claims.Username == "" || !claims.Role.Valid() {
		return domain.TokenClaims{}, false
	}

	return domain.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, true
}
