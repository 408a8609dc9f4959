package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.TokenPair, error)
	verifyFn   func(ctx context.Context, accessToken string) (*domain.Identity, error)
	refreshFn  func(ctx context.Context, accessToken, refreshToken string) (string, error)
	promoteFn  func(ctx context.Context, actor domain.Identity, targetUserID string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	return s.verifyFn(ctx, accessToken)
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (string, error) {
	return s.refreshFn(ctx, accessToken, refreshToken)
}

func (s *stubAuthService) PromoteToAdmin(ctx context.Context, actor domain.Identity, targetUserID string) error {
	return s.promoteFn(ctx, actor, targetUserID)
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u-1", Username: username, PasswordHash: "digest", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["id"] != "u-1" || resp["username"] != "alice" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/auth/register", `{"username":"bob","password":"pwd"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{"not-json", `{"username":"bob"}`, `{"password":"pwd"}`} {
		c, _ := newTestContext(http.MethodPost, "/api/auth/register", body)
		if err := handler.Register(c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("body %q: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_UsernameTooLong(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := `{"username":"` + strings.Repeat("a", 101) + `","password":"pwd"}`
	c, _ := newTestContext(http.MethodPost, "/api/auth/register", body)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "username") {
		t.Fatalf("expected message to name the field, got %q", err.Error())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.TokenPair, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["accessToken"] != "acc" || resp["refreshToken"] != "ref" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrUserNotFound} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, username, password string) (*domain.TokenPair, error) {
				return nil, want
			},
		}
		handler := NewAuthHandler(stub)

		c, rec := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"bad"}`)
		if err := handler.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("expected nothing written, got %s", rec.Body.String())
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/auth/login", `{"username":"","password":"x"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, accessToken string) (*domain.Identity, error) {
			if accessToken != "acc" {
				return nil, domain.ErrUnauthorized
			}
			return &domain.Identity{ID: "u-1", Username: "alice", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/verify", `{"accessToken":"acc"}`)
	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["id"] != "u-1" || resp["username"] != "alice" || resp["role"] != "admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/verify", `{"accessToken":"forged"}`)
	if err := handler.Verify(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/verify", `{}`)
	if err := handler.Verify(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing token: expected ErrUnauthorized, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/verify", "not-json")
	if err := handler.Verify(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unreadable body: expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, accessToken, refreshToken string) (string, error) {
			if refreshToken != "ref" {
				return "", domain.ErrInvalidCredentialPair
			}
			return "fresh", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/refresh", `{"accessToken":"acc","refreshToken":"ref"}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["accessToken"] != "fresh" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/refresh", `{"accessToken":"acc","refreshToken":"bad"}`)
	if err := handler.Refresh(c); !errors.Is(err, domain.ErrInvalidCredentialPair) {
		t.Fatalf("expected ErrInvalidCredentialPair, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/api/auth/refresh", `{"accessToken":"acc"}`)
	if err := handler.Refresh(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodGet, "/api/auth/me", "")
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["authenticated"] != false || resp["user"] != nil {
		t.Fatalf("expected anonymous payload, got %+v", resp)
	}

	c, rec = newTestContext(http.MethodGet, "/api/auth/me", "")
	middleware.SetIdentity(c, domain.Identity{ID: "u-1", Username: "alice", Role: domain.RoleUser})
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	user, ok := resp["user"].(map[string]any)
	if resp["authenticated"] != true || !ok || user["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
