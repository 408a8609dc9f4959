package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// AdminHandler serves role-management routes. Mount behind a gate restricted
// to super admins.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type moveToAdminRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// MoveToAdmin promotes a user to admin.
//
// @Summary      Promote a user to admin
// @Tags         service
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      moveToAdminRequest  true  "Target user"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/service/move-to-admin [put]
func (h *AdminHandler) MoveToAdmin(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req moveToAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.authService.PromoteToAdmin(c.Request().Context(), actor, req.UserID)
	metrics.RolePromotionsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{})
}
