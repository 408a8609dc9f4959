package service

import (
	"context"
	"errors"
	"sync"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// stubUserRepo is an in-memory UserRepository keyed by id.
type stubUserRepo struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	getErr   error // if set, lookups return this error
	updates  int   // number of successful UpdateRole calls
	lookups  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	r.updates++
	return nil
}

// put stores u directly, bypassing Create.
func (r *stubUserRepo) put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
}

var errStorage = errors.New("storage unreachable")
