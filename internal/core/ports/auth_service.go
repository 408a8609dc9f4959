package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.TokenPair, error)
	Verify(ctx context.Context, accessToken string) (*domain.Identity, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (string, error)
	PromoteToAdmin(ctx context.Context, actor domain.Identity, targetUserID string) error
}
