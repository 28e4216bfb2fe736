package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/identitykit/identity-api/internal/api"
	"github.com/identitykit/identity-api/internal/api/auth"
	"github.com/identitykit/identity-api/internal/bootstrap"
	"github.com/identitykit/identity-api/internal/core/service"
	"github.com/identitykit/identity-api/internal/infrastructure/config"
	mongodb "github.com/identitykit/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identitykit/identity-api/internal/infrastructure/db/redis"
	"github.com/identitykit/identity-api/internal/infrastructure/queue"
	"github.com/identitykit/identity-api/internal/infrastructure/token"
	"github.com/identitykit/identity-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Service: "identity-api",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// Key material loads once; an unreadable key file is fatal.
	codec, err := token.NewRS256Codec(
		cfg.Auth.PrivateKeyPath,
		cfg.Auth.PublicKeyPath,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec initialisation failed")
	}

	// --- Audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(db)
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	// --- Admin bootstrap ---
	userRepo := mongodb.NewUserRepository(db)
	userService := service.NewUserService(userRepo, mongodb.NewUnitOfWork(client), log)
	if err := bootstrap.EnsureAdmin(ctx, userRepo, userService, cfg.Admin.Email, cfg.Admin.Password, log); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		DB:     db,
		Client: client,
		Redis:  rdb,
		Codec:  codec,
		Audit:  dispatcher,
		Cookie: auth.CookieConfig{
			Name:     cfg.Cookie.Name,
			Path:     cfg.Cookie.Path,
			Domain:   cfg.Cookie.Domain,
			MaxAge:   cfg.Cookie.MaxAge,
			Secure:   cfg.Cookie.Secure,
			SameSite: cfg.Cookie.SameSite,
		},
		LoginRateLimit:  cfg.RateLimit.LoginMax,
		RateLimitWindow: cfg.RateLimit.Window,
		Log:             log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
