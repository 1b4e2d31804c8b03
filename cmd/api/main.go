// Command api serves the legal practice REST API.
//
// @title                       LegalVibes Practice API
// @version                     1.0
// @description                 Identity, session and owner-scoped client/project management.
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

	_ "github.com/legalvibes/practice-api/docs"
	"github.com/legalvibes/practice-api/internal/api"
	"github.com/legalvibes/practice-api/internal/api/handler"
	"github.com/legalvibes/practice-api/internal/core/service"
	"github.com/legalvibes/practice-api/internal/infrastructure/db/mongo"
	"github.com/legalvibes/practice-api/internal/infrastructure/db/redis"
	"github.com/legalvibes/practice-api/internal/infrastructure/queue"
	"github.com/legalvibes/practice-api/internal/pkg/config"
	"github.com/legalvibes/practice-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "practice-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongo.NewIdentityRepository(db)
	clients := mongo.NewClientRepository(db)
	projects := mongo.NewProjectRepository(db)
	documents := mongo.NewDocumentRepository(db)
	activityRepo := mongo.NewActivityRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, clients, projects, documents, activityRepo); err != nil {
		log.Fatal().Err(err).Msg("mongodb indexes")
	}
	idempotency := redis.NewIdempotencyStore(rdb, cfg.Auth.IdempotencyTTL)

	// --- Activity pipeline ---
	activityService := service.NewActivityService(activityRepo, logger.Component("activity"))
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Worker.ActivityWorkers, activityService, logger.Component("dispatcher"))
	dispatcher.Start(dispatcherCtx)

	// --- Services ---
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	passwords := service.NewPasswordService(cfg.Auth.BcryptCost)

	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(users, passwords, tokens, dispatcher, logger.Component("auth")),
		Tokens:    tokens,
		Users:     users,
		Admin:     service.NewAdminService(users, dispatcher, logger.Component("admin")),
		Clients:   service.NewClientService(clients, projects, idempotency, dispatcher, logger.Component("clients")),
		Projects:  service.NewProjectService(projects, clients, documents, idempotency, dispatcher, logger.Component("projects")),
		Documents: service.NewDocumentService(documents, projects, dispatcher, logger.Component("documents")),
		Activity:  activityService,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": mongo.Ping(mongoClient),
			"redis":   redis.Ping(rdb),
		},
		Log:        logger.Component("http"),
		CORSOrigin: []string{cfg.JWT.Audience},
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopDispatcher()
	dispatcher.Wait()
}
