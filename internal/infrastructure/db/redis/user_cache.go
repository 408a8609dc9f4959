package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const defaultUserTTL = 5 * time.Second

// Lookup results recorded on the lookups counter.
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

// CachedUserRepository is a read-through cache in front of a UserRepository
// for lookups by id, which the role guard performs on every authenticated
// request.
//
// Read-through fills use SET NX and never overwrite an entry. UpdateRole
// re-reads the store after writing and overwrites the entry with that record,
// so a fill carrying a role read before the update cannot replace or recreate
// it. Password hashes are never written to the cache.
//
// Key format: user:<id>
type CachedUserRepository struct {
	next    ports.UserRepository
	client  *redis.Client
	ttl     time.Duration
	lookups *prometheus.CounterVec
	log     zerolog.Logger
}

// NewCachedUserRepository wraps next. A non-positive ttl uses defaultUserTTL.
// lookups, when non-nil, is incremented with a single "result" label value:
// "hit", "miss" or "error".
func NewCachedUserRepository(
	next ports.UserRepository,
	client *redis.Client,
	ttl time.Duration,
	lookups *prometheus.CounterVec,
	log zerolog.Logger,
) *CachedUserRepository {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &CachedUserRepository{next: next, client: client, ttl: ttl, lookups: lookups, log: log}
}

type cachedUser struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// GetByID serves from cache when possible. Cache failures fall through to
// the wrapped repository.
func (c *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			c.record(lookupHit)
			return cu.toDomain(), nil
		}
		c.record(lookupError)
	case errors.Is(err, redis.Nil):
		c.record(lookupMiss)
	default:
		c.record(lookupError)
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed, falling back to store")
	}

	user, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.fill(ctx, user)
	return user, nil
}

// GetByUsername is not cached; login always compares against the stored hash.
func (c *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.next.GetByUsername(ctx, username)
}

func (c *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return c.next.Create(ctx, user)
}

// UpdateRole writes through, then replaces the cached entry with the record
// as stored after the write. If that fails the entry is dropped instead.
func (c *CachedUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if err := c.next.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	fresh, err := c.next.GetByID(ctx, id)
	if err == nil {
		var raw []byte
		raw, err = json.Marshal(fromDomain(fresh))
		if err == nil {
			err = c.client.Set(ctx, c.key(id), raw, c.ttl).Err()
		}
	}
	if err == nil {
		return nil
	}

	c.log.Warn().Err(err).Str("user_id", id).Msg("user cache refresh failed, dropping entry")
	if delErr := c.client.Del(ctx, c.key(id)).Err(); delErr != nil {
		c.log.Error().Err(delErr).Str("user_id", id).Dur("ttl", c.ttl).
			Msg("user cache invalidation failed, stale role may be served until expiry")
	}
	return nil
}

// Ping reports whether the cache is reachable.
func (c *CachedUserRepository) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *CachedUserRepository) fill(ctx context.Context, u *domain.User) {
	raw, err := json.Marshal(fromDomain(u))
	if err != nil {
		return
	}
	if err := c.client.SetNX(ctx, c.key(u.ID), raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("user_id", u.ID).Msg("user cache write failed")
	}
}

func (c *CachedUserRepository) record(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}

func (c *CachedUserRepository) key(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func fromDomain(u *domain.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (cu cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:        cu.ID,
		Username:  cu.Username,
		Role:      cu.Role,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}
}
