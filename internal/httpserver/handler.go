package httpserver

import (
	"evento-notification/internal/middleware"
	"evento-notification/internal/notification"
	notifHTTP "evento-notification/internal/notification/delivery/http"
	"evento-notification/internal/notification/delivery/pgnotify"
	notifRepo "evento-notification/internal/notification/repository/postgre"
	notifUsecase "evento-notification/internal/notification/usecase"
	wsHTTP "evento-notification/internal/websocket/delivery/http"
	wsRedis "evento-notification/internal/websocket/delivery/redis"
	wsUsecase "evento-notification/internal/websocket/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Api = "/api/v1"
)

func (srv *HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.logger, srv.discord)
	srv.gin.Use(mw.Recovery())
	srv.gin.Use(mw.RequestLogger("/ws", "/metrics", "/live"))
	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig(srv.wsConfig.AllowedOrigins)))

	// Connection registry
	srv.wsUC = wsUsecase.New(srv.logger, wsUsecase.Config{
		MaxConnections: srv.wsConfig.MaxConnections,
		SendBufferSize: srv.wsConfig.SendBufferSize,
		MaxMessageSize: srv.wsConfig.MaxMessageSize,
		PongWait:       srv.wsConfig.PongWait,
		PingInterval:   srv.wsConfig.PingInterval,
		WriteWait:      srv.wsConfig.WriteWait,
	})

	// Room broadcasts go through Redis when the relay is enabled.
	var broadcaster notification.Broadcaster = srv.wsUC
	if srv.redis != nil {
		broadcaster = wsRedis.NewPublisher(srv.redis, srv.wsUC, srv.logger)
		srv.wsSubscriber = wsRedis.NewSubscriber(srv.redis, srv.wsUC, srv.logger)
	}

	// Dispatcher
	repo := notifRepo.New(srv.logger, srv.postgresDB)
	srv.notifUC = notifUsecase.New(srv.logger, repo, broadcaster, srv.enforcement)

	// Change listener
	listener, err := pgnotify.New(srv.logger, srv.listenerConn, srv.notifUC, pgnotify.Config{
		Channels:        srv.listenerConfig.Channels,
		QueueSize:       srv.listenerConfig.QueueSize,
		LeaderLockKey:   srv.listenerConfig.LeaderLockKey,
		StandbyInterval: srv.listenerConfig.StandbyInterval,
	})
	if err != nil {
		return err
	}
	srv.listener = listener

	// Health check endpoints
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket
	wsHandler := wsHTTP.New(srv.wsUC, srv.notifUC, srv.logger, wsHTTP.WSConfig{
		ReadBufferSize:   srv.wsConfig.ReadBufferSize,
		WriteBufferSize:  srv.wsConfig.WriteBufferSize,
		AllowedOrigins:   srv.wsConfig.AllowedOrigins,
		UpgradeRateLimit: srv.wsConfig.UpgradeRateLimit,
	})
	wsHandler.RegisterRoutes(srv.gin)

	// API routes
	api := srv.gin.Group(Api)
	notifHTTP.New(srv.logger, srv.notifUC).RegisterRoutes(api)

	return nil
}
