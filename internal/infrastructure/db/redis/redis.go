package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout = 5 * time.Second
	// The role guard reads the cache on every authenticated request and falls
	// back to the store on error, so commands give up quickly.
	defaultCommandTimeout = 200 * time.Millisecond
	defaultPoolSize       = 20
	defaultMinIdleConns   = 2
)

// Config captures the settings for the user cache connection. Zero values
// select the defaults above.
type Config struct {
	Addr           string
	DB             int
	Timeout        time.Duration
	CommandTimeout time.Duration
	PoolSize       int
}

func (cfg Config) options() *redis.Options {
	dial := cfg.Timeout
	if dial <= 0 {
		dial = defaultTimeout
	}
	cmd := cfg.CommandTimeout
	if cmd <= 0 {
		cmd = defaultCommandTimeout
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}

	return &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  cmd,
		WriteTimeout: cmd,
		PoolSize:     pool,
		PoolTimeout:  cmd,
		MinIdleConns: defaultMinIdleConns,
		// A failed read costs one store lookup; retrying would only add latency.
		MaxRetries: -1,
	}
}

// Connect initialises a client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
