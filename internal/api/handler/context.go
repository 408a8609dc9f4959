package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// ctxIdentity returns the identity attached by the authorization gate. Its
// absence on a forced route means the gate was not mounted, which is treated
// as unauthenticated rather than trusted.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ErrInvalidInput
	}
	return c.Validate(req)
}
