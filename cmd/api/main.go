package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/catregistry/cat-api/docs"
	"github.com/catregistry/cat-api/internal/api"
	"github.com/catregistry/cat-api/internal/api/handler"
	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/internal/core/service"
	"github.com/catregistry/cat-api/internal/infrastructure/db/mongo"
	"github.com/catregistry/cat-api/internal/infrastructure/db/redis"
	"github.com/catregistry/cat-api/internal/infrastructure/queue"
	"github.com/catregistry/cat-api/internal/pkg/config"
	"github.com/catregistry/cat-api/pkg/logger"
)

// @title           Cat Registry API
// @version         1.0
// @description     Users and their cats, with ownership checks and a bounding-box search.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogOutput(),
		Service: "cat-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting cat api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "cat-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	userRepo := mongo.NewUserRepository(db)
	catRepo := mongo.NewCatRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, catRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	revocations := redis.NewRevocationStore(rdb, tokens.TTL())

	var cleanup ports.OwnerCleanup
	var dispatcher *queue.Dispatcher
	if cfg.Cleanup.Cascade {
		dispatcher = queue.NewDispatcher(cfg.Cleanup.Workers, catRepo, log)
		dispatcher.Start(context.Background())
		cleanup = dispatcher
		log.Info().Int("workers", cfg.Cleanup.Workers).Msg("cascade delete of user cats enabled")
	}

	users := service.NewUserService(userRepo, tokens, revocations, cleanup, logger.Component("users"))
	cats := service.NewCatService(catRepo, logger.Component("cats"))

	router := api.NewRouter(api.Dependencies{
		Users:       users,
		Cats:        cats,
		Tokens:      tokens,
		Revocations: revocations,
		Checks:      dependencyChecks(mongoClient, rdb),
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
		stop()
	}

	shutdown(srv, log)
	if dispatcher != nil {
		stopCleanup(dispatcher, log)
	}
}

// stopCleanup runs after the HTTP server has drained so that deletes accepted
// during shutdown still reach the workers.
func stopCleanup(d *queue.Dispatcher, log zerolog.Logger) {
	d.Stop()
	select {
	case <-d.Done():
		log.Info().Msg("cleanup workers stopped")
	case <-time.After(30 * time.Second):
		log.Warn().Msg("cleanup workers still busy, exiting")
	}
}

func shutdown(srv *http.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return
	}
	log.Info().Msg("server exited gracefully")
}

func dependencyChecks(client *mongodriver.Client, rdb *goredis.Client) map[string]handler.DependencyCheck {
	return map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}
