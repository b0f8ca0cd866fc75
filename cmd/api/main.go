// @title        Natours API
// @version      1.0
// @description  Authentication and role-based authorization for the Natours tour booking API.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
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

	"github.com/natours/booking-api/internal/api"
	"github.com/natours/booking-api/internal/api/handler"
	"github.com/natours/booking-api/internal/core/service"
	mongodb "github.com/natours/booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/natours/booking-api/internal/infrastructure/db/redis"
	"github.com/natours/booking-api/internal/infrastructure/password"
	"github.com/natours/booking-api/internal/infrastructure/token"
	"github.com/natours/booking-api/internal/pkg/config"
	"github.com/natours/booking-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	loaded := loadLocalEnv()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "natours-api",
	})
	if loaded == "" {
		log.Info().Msg("no env file found; relying on existing environment")
	} else {
		log.Info().Str("file", loaded).Msg("loaded env file")
	}

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "natours-api",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init redis")
	}
	defer rdb.Close()

	hasher, err := password.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		log.Fatal().Err(err).Msg("init password hasher")
	}
	tokens := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)

	trustedProxies, err := cfg.RateLimit.TrustedProxyNets()
	if err != nil {
		log.Fatal().Err(err).Msg("parse trusted proxies")
	}

	store := service.NewCredentialStore(mongodb.NewUserRepository(db), hasher, logger.For("credential_store"))
	auth := service.NewAuthService(store, hasher, tokens, logger.For("auth"))
	if err := auth.Warm(ctx); err != nil {
		log.Fatal().Err(err).Msg("warm auth service")
	}
	e := api.NewRouter(api.Dependencies{
		Auth:        auth,
		Gate:        service.NewGate(tokens, store, logger.For("gate")),
		Tours:       service.NewTourService(mongodb.NewTourRepository(db), logger.For("tours")),
		RateLimiter: redisdb.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window),
		Health:      handler.NewHealthDependenciesHandler(db, rdb, logger.For("health")),
		Logger:      logger.For("http"),

		TrustedProxies: trustedProxies,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("natours api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("server stopped")
}

// loadLocalEnv loads config.env, falling back to .env. Variables already set
// in the environment win. It returns the file it loaded, if any.
func loadLocalEnv() string {
	for _, path := range []string{"config.env", ".env"} {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}
