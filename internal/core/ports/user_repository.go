package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserRepository defines the persistence operations the auth core depends on.
// Lookups return domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	// UpdateRole returns domain.ErrUserNotFound when id does not exist.
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}
