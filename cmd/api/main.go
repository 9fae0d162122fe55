package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumehub/internal/api"
	"resumehub/internal/api/middleware"
	"resumehub/internal/auth"
	"resumehub/internal/config"
	"resumehub/internal/database"
	"resumehub/internal/repository"
	"resumehub/internal/service"
	"resumehub/internal/session"
	"resumehub/internal/storage"
	"resumehub/internal/tasks"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	if err := db.AutoMigrate(&database.User{}, &database.Resume{}, &database.Follow{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})

	issuer, err := auth.NewTokenIssuer(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL(),
		cfg.Auth.RefreshTTL(),
	)
	if err != nil {
		log.Fatalf("init token issuer: %v", err)
	}
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	sessions := session.NewRedisStore(redisClient)
	enqueuer := tasks.NewEnqueuer(asynqClient)

	userRepo := repository.NewUserRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	userService := service.NewUserService(userRepo, hasher, issuer, enqueuer, logger)
	resumeService := service.NewResumeService(resumeRepo)
	followService := service.NewFollowService(followRepo, userRepo, resumeRepo)
	adminService := service.NewAdminService(userRepo, sessions, enqueuer, logger)

	authenticator := middleware.NewAuthenticator(issuer, sessions)

	userHandler := api.NewUserHandler(
		userService,
		sessions,
		issuer,
		redisClient,
		storageClient,
		logger,
		cfg.Clamd.Addr,
		cfg.API.CookieDomain,
		cfg.API.LoginRateLimitPerHour,
		cfg.API.LoginLockThreshold,
		cfg.API.LoginLockTTL(),
	)
	resumeHandler := api.NewResumeHandler(resumeService)
	followHandler := api.NewFollowHandler(followService)
	adminHandler := api.NewAdminHandler(adminService)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, userHandler, resumeHandler, followHandler, adminHandler, authenticator, cfg.API.CookieDomain)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("start api server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := asynqClient.Close(); err != nil {
		logger.Error("close asynq client failed", slog.Any("error", err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("close redis client failed", slog.Any("error", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("close database failed", slog.Any("error", err))
		}
	}
}
