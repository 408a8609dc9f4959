package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// RoleGuard rejects tokens whose embedded role no longer matches the role
// persisted for the user. There is no revocation list: a role change makes
// every earlier token for that user stale, detected here on use.
type RoleGuard struct {
	users ports.UserRepository
}

func NewRoleGuard(users ports.UserRepository) *RoleGuard {
	return &RoleGuard{users: users}
}

// Check returns the live user record for claims. It fails with
// domain.ErrUserNotFound when the subject no longer exists and with
// domain.ErrRoleConflict when the role claim is stale.
func (g *RoleGuard) Check(ctx context.Context, claims domain.TokenClaims) (*domain.User, error) {
	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("role guard lookup: %w", err)
	}

	if user.Role != claims.Role {
		return nil, domain.ErrRoleConflict
	}
	return user, nil
}
