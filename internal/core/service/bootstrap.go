package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// EnsureSuperAdmin guarantees that username exists with role super_admin. It
// runs once at startup, before the HTTP server accepts traffic.
func EnsureSuperAdmin(
	ctx context.Context,
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	username, password string,
	log zerolog.Logger,
) error {
	if username == "" || password == "" {
		return fmt.Errorf("super admin bootstrap: %w", domain.ErrInvalidInput)
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != domain.RoleSuperAdmin {
			return fmt.Errorf("super admin bootstrap: username %q is held by a %s account", username, existing.Role)
		}
		log.Debug().Str("username", username).Msg("super admin already present")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("super admin bootstrap: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("super admin bootstrap: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.Create(ctx, admin); err != nil {
		// another replica won the race
		if errors.Is(err, domain.ErrUserExists) {
			winner, lookupErr := users.GetByUsername(ctx, username)
			if lookupErr == nil && winner.Role == domain.RoleSuperAdmin {
				return nil
			}
		}
		return fmt.Errorf("super admin bootstrap: %w", err)
	}

	log.Info().Str("username", username).Str("user_id", admin.ID).Msg("super admin created")
	return nil
}
