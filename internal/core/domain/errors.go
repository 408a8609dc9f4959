package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidCredentialPair = errors.New("invalid access token or refresh token")
	ErrForbidden             = errors.New("access forbidden")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrRoleConflict          = errors.New("user role has been modified")
	ErrAlreadyPrivileged     = errors.New("user already holds an administrative role")
)
