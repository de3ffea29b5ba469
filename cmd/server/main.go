package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"chartdeck/docs"
	"chartdeck/internal/auth"
	"chartdeck/internal/authz"
	"chartdeck/internal/cache"
	"chartdeck/internal/charting"
	"chartdeck/internal/config"
	"chartdeck/internal/dataset"
	"chartdeck/internal/db"
	"chartdeck/internal/handler"
	"chartdeck/internal/logging"
	"chartdeck/internal/repository"
	"chartdeck/internal/router"
	"chartdeck/internal/service"
	"chartdeck/internal/storage"
)

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

const shutdownTimeout = 10 * time.Second

// @title Chartdeck API
// @version 1.0
// @description Upload CSV files, render charts server side and organise them in projects.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Without Redis the server still runs: datasets stay in process memory,
	// the cache is off and logout no longer revokes tokens.
	var (
		datasets    dataset.Store
		cacheClient *cache.Client
	)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, running without it", "addr", cfg.RedisAddr, "error", err)
		datasets = dataset.NewMemoryStore(cfg.DatasetTTL)
		cacheClient = cache.New(nil, logger)
	} else {
		datasets = dataset.NewRedisStore(redisClient, cfg.DatasetTTL)
		cacheClient = cache.New(redisClient, logger)
	}
	cancel()
	revocations := auth.NewRevocationList(cacheClient)

	artifacts, err := storage.Open(ctx, cfg.StorageBackend, cfg.StorageDir, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	settingsRepo := repository.NewSettingsRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	chartRepo := repository.NewChartRepository(gormDB)

	guard := authz.NewGuard(projectRepo, chartRepo)
	renderer := charting.NewRenderer(charting.NewPlotter(), artifacts, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, revocations)
	userService := service.NewUserService(userRepo, profileRepo, settingsRepo, projectRepo, chartRepo, artifacts, cacheClient, logger)
	projectService := service.NewProjectService(projectRepo, chartRepo, guard, artifacts, logger)
	chartService := service.NewChartService(chartRepo, guard, datasets, renderer, artifacts, logger)
	visualizeService := service.NewVisualizeService(datasets, renderer, artifacts, logger)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		logger,
		jwtService,
		revocations,
		handler.NewAuthHandler(authService, userService),
		handler.NewUserHandler(userService),
		handler.NewProjectHandler(projectService),
		handler.NewChartHandler(chartService),
		handler.NewVisualizeHandler(visualizeService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("listening", "addr", addr, "storage", cfg.StorageBackend, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
