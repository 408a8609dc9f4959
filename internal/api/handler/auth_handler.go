package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type verifyRequest struct {
	AccessToken string `json:"accessToken"`
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"  validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type identityResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

type meResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *identityResponse `json:"user,omitempty"`
}

func toIdentityResponse(id domain.Identity) identityResponse {
	return identityResponse{ID: id.ID, Username: id.Username, Role: id.Role}
}

// Register creates a new user account with role user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc()
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toIdentityResponse(user.Identity()))
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
		return err
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Verify resolves an access token to the live identity of its owner.
//
// @Summary      Verify an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Access token"
// @Success      200   {object}  identityResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	// A missing or unreadable token is an invalid token.
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(metrics.Result(domain.ErrUnauthorized)).Inc()
		return domain.ErrUnauthorized
	}

	id, err := h.authService.Verify(c.Request().Context(), req.AccessToken)
	metrics.TokenVerificationsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toIdentityResponse(*id))
}

// Refresh mints a new access token from a refresh token.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Current token pair"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(metrics.Result(err)).Inc()
		return err
	}

	tok, err := h.authService.Refresh(c.Request().Context(), req.AccessToken, req.RefreshToken)
	metrics.TokenRefreshesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{AccessToken: tok})
}

// Me reports the identity attached by an optional gate.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusOK, meResponse{Authenticated: false})
	}
	resp := toIdentityResponse(id)
	return c.JSON(http.StatusOK, meResponse{Authenticated: true, User: &resp})
}
