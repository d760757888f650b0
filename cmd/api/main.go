// Command api runs the storefront HTTP service.
//
// @title                       Storefront API
// @version                     1.0
// @description                 Catalog reads and stateless bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/anik/storefront-api/internal/api"
	"github.com/anik/storefront-api/internal/api/handler"
	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/service"
	mongodb "github.com/anik/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/anik/storefront-api/internal/infrastructure/db/redis"
	"github.com/anik/storefront-api/internal/infrastructure/queue"
	"github.com/anik/storefront-api/internal/infrastructure/security"
	"github.com/anik/storefront-api/internal/pkg/config"
	"github.com/anik/storefront-api/pkg/logger"
)

const serviceName = "storefront-api"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	key, err := domain.NewSigningKey([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return err
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit pipeline ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	auditService := service.NewAuditService(mongodb.NewAuthEventRepository(db), log.With().Str("component", "audit").Logger())
	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	codec := security.NewJWTCodec()
	authService := service.NewAuthService(
		mongodb.NewCredentialRepository(db),
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		codec,
		service.TokenConfig{Key: key, TTL: cfg.Auth.TokenTTL},
		dispatcher,
		log.With().Str("component", "auth").Logger(),
	)
	productService := service.NewProductService(
		mongodb.NewProductRepository(db),
		redisdb.NewProductCache(rdb, cfg.Redis.ProductCacheTTL),
		log.With().Str("component", "catalog").Logger(),
	)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Products: productService,
		Codec:    codec,
		Key:      key,
		Logger:   log,
		Health: map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
