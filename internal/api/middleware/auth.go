package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
)

const identityKey = "auth.identity"

// TokenVerifier is the access-token half of the token service.
type TokenVerifier interface {
	VerifyAccess(token string) (domain.TokenClaims, bool)
}

// RoleChecker resolves verified claims to the live user, rejecting stale roles.
type RoleChecker interface {
	Check(ctx context.Context, claims domain.TokenClaims) (*domain.User, error)
}

// Gate is the authorization gate in front of protected routes.
type Gate struct {
	tokens TokenVerifier
	guard  RoleChecker
}

func NewGate(tokens TokenVerifier, guard RoleChecker) *Gate {
	return &Gate{tokens: tokens, guard: guard}
}

// Require returns a middleware that authenticates the bearer token and
// attaches the caller's live identity.
//
// With force, a missing token is rejected with domain.ErrUnauthorized;
// without it the request continues anonymously. A token that is present is
// always checked: an invalid one is rejected with domain.ErrUnauthorized, and
// one that belongs to a deleted user or carries a stale role is rejected too. allowedRoles restricts the live role and requires
// force; Require panics otherwise.
func (g *Gate) Require(force bool, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	if !force && len(allowedRoles) > 0 {
		panic("middleware: allowed roles require a forced gate")
	}

	var restrict echo.MiddlewareFunc
	if len(allowedRoles) > 0 {
		restrict = RBAC(allowedRoles...)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		inner := next
		if restrict != nil {
			inner = restrict(next)
		}

		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				if !force {
					return next(c)
				}
				return reject(domain.ErrUnauthorized)
			}

			claims, ok := g.tokens.VerifyAccess(raw)
			if !ok {
				return reject(domain.ErrUnauthorized)
			}

			user, err := g.guard.Check(c.Request().Context(), claims)
			if err != nil {
				return reject(err)
			}

			SetIdentity(c, user.Identity())
			if restrict == nil {
				metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			}
			return inner(c)
		}
	}
}

func reject(err error) error {
	metrics.TokenVerificationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	return err
}

// BearerToken extracts the token from an Authorization header value. The
// scheme match is case-insensitive.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// SetIdentity attaches id to the request.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by the gate, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
