package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/99minutos/auth-service/internal/core/domain"
)

func TestResult(t *testing.T) {
	cases := map[string]error{
		"ok":           nil,
		"bad_request":  domain.ErrInvalidInput,
		"unauthorized": fmt.Errorf("login: %w", domain.ErrInvalidCredentials),
		"forbidden":    domain.ErrForbidden,
		"not_found":    domain.ErrUserNotFound,
		"conflict":     domain.ErrRoleConflict,
		"error":        errors.New("mongo: connection refused"),
	}
	for want, err := range cases {
		if got := Result(err); got != want {
			t.Fatalf("Result(%v) = %q, want %q", err, got, want)
		}
	}
}
