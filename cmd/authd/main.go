// Command authd serves the auth API.
//
// @title        Auth Service API
// @version      1.0
// @description  Token-based authentication and role authorization.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/99minutos/auth-service/docs"
	"github.com/99minutos/auth-service/internal/api"
	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/core/service"
	"github.com/99minutos/auth-service/internal/infrastructure/config"
	mongostore "github.com/99minutos/auth-service/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/auth-service/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-service/internal/infrastructure/password"
	"github.com/99minutos/auth-service/internal/infrastructure/token"
	"github.com/99minutos/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "auth-service",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("auth service stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	store := mongostore.NewUserRepository(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	var users ports.UserRepository = store
	checks := map[string]handler.Pinger{"mongodb": store}

	if cfg.Redis.CacheEnabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:           cfg.Redis.Addr,
			DB:             cfg.Redis.DB,
			CommandTimeout: cfg.Redis.CommandTimeout,
			PoolSize:       cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		cache := redisstore.NewCachedUserRepository(store, rdb, cfg.Redis.CacheTTL, metrics.UserCacheLookupsTotal, log)
		users = cache
		checks["redis"] = cache
		log.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("user cache enabled")
	}

	hasher, err := password.New(cfg.Password.Hasher, cfg.Password.BcryptCost)
	if err != nil {
		return err
	}

	tokens, err := token.NewService(token.Config{
		AccessSecret:  cfg.Token.AccessSecret,
		RefreshSecret: cfg.Token.RefreshSecret,
		AccessTTL:     cfg.Token.AccessTTL(),
		RefreshTTL:    cfg.Token.RefreshTTL(),
	})
	if err != nil {
		return err
	}

	if err := service.EnsureSuperAdmin(ctx, users, hasher, cfg.SuperAdmin.Username, cfg.SuperAdmin.Password, log); err != nil {
		return err
	}

	guard := service.NewRoleGuard(users)
	router := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(users, hasher, tokens, guard, log),
		Gate:   middleware.NewGate(tokens, guard),
		Checks: checks,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
