// @title                       Catalog API
// @version                     1.0
// @description                 User authentication and a role-gated product catalog.
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
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/udtn/catalog-api/internal/api"
	"github.com/udtn/catalog-api/internal/api/handler"
	"github.com/udtn/catalog-api/internal/core/service"
	mongodb "github.com/udtn/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/udtn/catalog-api/internal/infrastructure/db/redis"
	"github.com/udtn/catalog-api/internal/infrastructure/security"
	"github.com/udtn/catalog-api/internal/pkg/config"
	"github.com/udtn/catalog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "catalog-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, productRepo); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	tokens := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	authService := service.NewAuthService(userRepo, security.NewBcryptHasher(cfg.BcryptCost), tokens, logger.For("auth"))
	productService := service.NewProductService(
		productRepo,
		redisdb.NewIdempotencyStore(rdb, cfg.Idempotency),
		logger.For("products"),
	)

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		ProductService: productService,
		TokenVerifier:  tokens,
		HealthChecks: map[string]handler.Check{
			"mongodb": mongodb.Pinger(mongoClient),
			"redis":   redisdb.Pinger(rdb),
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.For("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("bye")
}
