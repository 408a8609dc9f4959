package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token      TokenConfig
	Password   PasswordConfig
	SuperAdmin SuperAdminConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

// TokenConfig lifetimes are whole minutes.
type TokenConfig struct {
	AccessSecret            string `env:"ACCESS_TOKEN_SECRET,      required"`
	RefreshSecret           string `env:"REFRESH_TOKEN_SECRET,     required"`
	AccessExpiresInMinutes  int    `env:"ACCESS_TOKEN_EXPIRES_IN,  default=15"`
	RefreshExpiresInMinutes int    `env:"REFRESH_TOKEN_EXPIRES_IN, default=10080"`
}

type PasswordConfig struct {
	Hasher     string `env:"PASSWORD_HASHER, default=bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST,     default=10"`
}

type SuperAdminConfig struct {
	Username string `env:"SUPER_ADMIN_USERNAME, required"`
	Password string `env:"SUPER_ADMIN_PASSWORD, required"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_service"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,            default=localhost:6379"`
	DB             int           `env:"REDIS_DB,              default=0"`
	CommandTimeout time.Duration `env:"REDIS_COMMAND_TIMEOUT, default=200ms"`
	PoolSize       int           `env:"REDIS_POOL_SIZE,       default=20"`
	CacheEnabled   bool          `env:"USER_CACHE_ENABLED,    default=true"`
	CacheTTL       time.Duration `env:"USER_CACHE_TTL,        default=5s"`
}

// AccessTTL returns the access-token lifetime.
func (t TokenConfig) AccessTTL() time.Duration {
	return time.Duration(t.AccessExpiresInMinutes) * time.Minute
}

// RefreshTTL returns the refresh-token lifetime.
func (t TokenConfig) RefreshTTL() time.Duration {
	return time.Duration(t.RefreshExpiresInMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Token.AccessExpiresInMinutes <= 0 || c.Token.RefreshExpiresInMinutes <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Token.AccessSecret == c.Token.RefreshSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	switch c.Password.Hasher {
	case "bcrypt":
	case "plaintext":
		if c.IsProduction() {
			errs = append(errs, errors.New("PASSWORD_HASHER=plaintext is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PASSWORD_HASHER %q", c.Password.Hasher))
	}
	return errors.Join(errs...)
}

// LoadFrom reads and validates configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
// It panics when configuration is missing or invalid.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err)
	}
	return cfg
}
