// @title Foundira API
// @version 1.0
// @description Lost and found reports with keyword-based match ranking

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/api"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/api/handlers"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/cache"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/config"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/health"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/notify"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/scheduler"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/gin-gonic/gin"
)

const refreshTimeout = 5 * time.Minute

func main() {
	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	healthChecker := health.NewHealthChecker(cfg.Database.HealthTimeout).
		Register("database", database)

	// Match cache (optional)
	var matchCache cache.MatchCache = cache.NoopCache{}
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, match cache disabled")
		} else {
			defer redisCache.Close()
			matchCache = redisCache
			healthChecker.Register("redis", redisCache)
			logger.Info().Msg("redis match cache enabled")
		}
	}

	// Match event fan-out (every sender optional)
	var notifiers notify.Multi
	if cfg.Notify.NATSURL != "" {
		publisher, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.SubjectPrefix)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, match events will not be published")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			logger.Info().Str("url", cfg.Notify.NATSURL).Msg("nats match publisher enabled")
		}
	}
	if cfg.Notify.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Notify.SlackWebhookURL))
		logger.Info().Msg("slack match notifier enabled")
	}

	var itemHook notify.ItemHook = notify.Noop{}
	if cfg.Notify.WebhookLostURL != "" || cfg.Notify.WebhookFoundURL != "" {
		itemHook = notify.NewWebhookDispatcher(
			cfg.Notify.WebhookLostURL,
			cfg.Notify.WebhookFoundURL,
			cfg.Notify.WebhookRate,
			cfg.Notify.WebhookTimeout,
		)
		logger.Info().Msg("item webhooks enabled")
	}

	// Repositories and services
	itemRepo := repository.NewItemRepository(database.Pool)
	notificationRepo := repository.NewNotificationRepository(database.Pool)

	itemService := service.NewItemService(itemRepo, notificationRepo, itemHook, matchCache)
	defer itemService.Wait()

	matchService := service.NewMatchService(itemRepo, notificationRepo, notifiers, matchCache, matching.Default(), service.MatchServiceConfig{
		Threshold:      cfg.Matching.Threshold,
		HighConfidence: cfg.Matching.HighConfidence,
		CacheTTL:       cfg.Cache.MatchTTL,
	})
	notificationService := service.NewNotificationService(notificationRepo)

	if cfg.Features.EnableMatchRefresh {
		cronScheduler := scheduler.NewScheduler(matchService, cfg.Matching.RefreshCron, refreshTimeout)
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer cronScheduler.Stop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.RecoveryMiddleware())

	router.GET("/health", healthChecker.Handler)

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Items:         handlers.NewItemHandler(itemService, cfg.Features.EnableDemoSeed),
		Matches:       handlers.NewMatchHandler(matchService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	})

	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		logger.Fatal().Msg("failed to determine TCP address")
	}
	selectedPort := tcpAddr.Port

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", selectedPort).
			Str("addr", cfg.Server.Host).
			Msg("starting server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")

	// Print the selected port on graceful exit for supervising processes
	fmt.Printf("PORT=%d\n", selectedPort) //nolint:forbidigo // Intentional stdout output for supervisor
}
