// @title          Inventory API
// @version        1.0
// @description    User accounts and a role-gated product catalog.
// @BasePath       /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/99minutos/inventory-system/internal/api"
	"github.com/99minutos/inventory-system/internal/api/handler"
	"github.com/99minutos/inventory-system/internal/core/ports"
	"github.com/99minutos/inventory-system/internal/core/service"
	mongodb "github.com/99minutos/inventory-system/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/inventory-system/internal/infrastructure/db/redis"
	"github.com/99minutos/inventory-system/internal/infrastructure/queue"
	"github.com/99minutos/inventory-system/internal/pkg/config"
	"github.com/99minutos/inventory-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "inventory-api",
		Env:     cfg.Env,
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "inventory-api",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongo indexes")
	}

	checks := map[string]handler.DependencyCheck{
		"mongo": func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
	}

	var sessions ports.SessionCache
	if cfg.Redis.Enabled() {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		sessions = redisdb.NewSessionCache(rdb, cfg.Redis.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session cache enabled")
	}

	// --- Audit trail ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	recorder := service.NewAuditService(mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, recorder, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(
		mongodb.NewUserRepository(db),
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		service.NewJWTIssuer(cfg.JWTSecret, cfg.Auth.TokenTTL),
		sessions,
		logger.Component("auth"),
	)
	productService := service.NewProductService(
		mongodb.NewProductRepository(db),
		dispatcher,
		logger.Component("products"),
	)

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		Identity:       authService,
		ProductService: productService,
		Logger:         logger.Component("http"),
		HealthChecks:   checks,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	dispatcher.Close()
	dispatcher.Wait()
	cancelWorkers()
	log.Info().Msg("shutdown complete")
}
