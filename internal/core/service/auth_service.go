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

// AuthService implements registration, login, token verification, token
// refresh and role promotion.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	guard  *RoleGuard
	log    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	guard *RoleGuard,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		guard:  guard,
		log:    log,
	}
}

// Register creates an account with role user.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Login checks the password and issues an access/refresh pair. An unknown
// username and a wrong password are reported differently.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	claims := domain.ClaimsFor(user)
	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(claims)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify resolves an access token to the live identity of its subject.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, ok := s.tokens.VerifyAccess(accessToken)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.guard.Check(ctx, claims)
	if err != nil {
		return nil, err
	}

	id := user.Identity()
	return &id, nil
}

// Refresh mints a new access token from a valid refresh token.
func (s *AuthService) Refresh(_ context.Context, accessToken, refreshToken string) (string, error) {
	if accessToken == "" || refreshToken == "" {
		return "", domain.ErrInvalidInput
	}

	tok, err := s.tokens.Rotate(accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentialPair) {
			return "", domain.ErrInvalidCredentialPair
		}
		return "", fmt.Errorf("refresh: %w", err)
	}
	return tok, nil
}

// PromoteToAdmin moves targetUserID from user to admin. Only a super admin
// may do this; the actor's role is checked before anything is read or written.
func (s *AuthService) PromoteToAdmin(ctx context.Context, actor domain.Identity, targetUserID string) error {
	if actor.Role != domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	if targetUserID == "" {
		return domain.ErrInvalidInput
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("promote: %w", err)
	}

	if target.Role != domain.RoleUser {
		return domain.ErrAlreadyPrivileged
	}

	if err := s.users.UpdateRole(ctx, target.ID, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("promote: %w", err)
	}

	s.log.Info().
		Str("actor_id", actor.ID).
		Str("user_id", target.ID).
		Str("role", string(domain.RoleAdmin)).
		Msg("user role changed")
	return nil
}
