package main

import (
	"context"
	"fmt"
	"os"

	"evento-notification/config"
	configPostgre "evento-notification/config/postgre"
	configRedis "evento-notification/config/redis"
	"evento-notification/internal/httpserver"
	"evento-notification/pkg/discord"
	"evento-notification/pkg/log"
	pkgRedis "evento-notification/pkg/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return 1
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx := context.Background()
	logger.Info(ctx, "Starting Evento Notification Service...")

	// Initialize Discord webhook (optional)
	var discordClient discord.IDiscord
	if cfg.Discord.WebhookID != "" && cfg.Discord.WebhookToken != "" {
		d, err := discord.New(logger, cfg.Discord.WebhookID, cfg.Discord.WebhookToken)
		if err != nil {
			logger.Warnf(ctx, "Failed to initialize Discord webhook: %v", err)
		} else {
			discordClient = d
			defer d.Close()
			logger.Info(ctx, "Discord webhook initialized")
		}
	}

	// PostgreSQL - query pool
	postgresDB, err := configPostgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
		return 1
	}
	defer configPostgre.Disconnect(postgresDB)
	logger.Infof(ctx, "PostgreSQL connected successfully to %s:%d/%s", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)

	// PostgreSQL - dedicated LISTEN connection, owned by the change listener
	listenerConn, err := configPostgre.ConnectListener(ctx, cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to open PostgreSQL listen connection: %v", err)
		return 1
	}

	// Redis - multi-instance relay (optional)
	var redisClient pkgRedis.IRedis
	if cfg.Redis.RelayEnabled {
		redisClient, err = configRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			_ = listenerConn.Close(ctx)
			return 1
		}
		defer redisClient.Close()
		logger.Infof(ctx, "Redis relay enabled on %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	}

	srv, err := httpserver.New(logger, httpserver.Config{
		// Server configuration
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Mode:        cfg.Server.Mode,
		Environment: cfg.Environment.Name,

		// Real-time configuration
		WebSocket:    cfg.WebSocket,
		Listener:     cfg.Listener,
		Notification: cfg.Notification,

		// Storage
		PostgresDB:   postgresDB,
		ListenerConn: listenerConn,
		Redis:        redisClient,

		// Monitoring
		Discord: discordClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		_ = listenerConn.Close(ctx)
		return 1
	}

	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "Notification service exited with error: %v", err)
		return 1
	}
	return 0
}
