package main

import (
	"context"
	"log"
	"os"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/cache"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/config"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/db"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/logger"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/notify"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/repository"
	"github.com/Tharunnagabramhagna/foundria/backend/internal/service"

	"github.com/mark3labs/mcp-go/server"
)

const mcpEndpointPath = "/mcp"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout carries the protocol stream in stdio mode
	logger.InitWithWriter(cfg.Logger, os.Stderr)

	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	var matchCache cache.MatchCache = cache.NoopCache{}
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, match cache disabled")
		} else {
			defer redisCache.Close()
			matchCache = redisCache
		}
	}

	var notifiers notify.Multi
	if cfg.Notify.NATSURL != "" {
		publisher, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.SubjectPrefix)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, match events will not be published")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
		}
	}
	if cfg.Notify.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Notify.SlackWebhookURL))
	}

	itemRepo := repository.NewItemRepository(database.Pool)
	notificationRepo := repository.NewNotificationRepository(database.Pool)
	matchService := service.NewMatchService(itemRepo, notificationRepo, notifiers, matchCache, matching.Default(), service.MatchServiceConfig{
		Threshold:      cfg.Matching.Threshold,
		HighConfidence: cfg.Matching.HighConfidence,
		CacheTTL:       cfg.Cache.MatchTTL,
	})

	s := buildMCPServer(matchService)

	switch cfg.MCP.Transport {
	case "stdio":
		logger.Info().Msg("serving MCP over stdio")
		if err := server.ServeStdio(s); err != nil {
			logger.Error().Err(err).Msg("mcp server stopped")
		}
	case "http":
		httpServer := server.NewStreamableHTTPServer(s, server.WithEndpointPath(mcpEndpointPath))
		logger.Info().
			Str("addr", cfg.MCP.HTTPAddr).
			Str("path", mcpEndpointPath).
			Msg("starting streamable HTTP MCP server")
		if err := httpServer.Start(cfg.MCP.HTTPAddr); err != nil {
			logger.Error().Err(err).Msg("mcp server stopped")
		}
	}
}
