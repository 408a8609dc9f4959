package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// RBAC restricts a route to identities holding one of allowedRoles. It reads
// the identity attached by Gate, so the role checked is the live one.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return reject(domain.ErrUnauthorized)
			}
			if _, ok := allowed[id.Role]; !ok {
				return reject(domain.ErrForbidden)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			return next(c)
		}
	}
}
