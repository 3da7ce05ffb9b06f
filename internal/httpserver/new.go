package httpserver

import (
	"errors"
	"time"

	"evento-notification/config"
	"evento-notification/internal/notification"
	"evento-notification/internal/notification/delivery/pgnotify"
	"evento-notification/internal/websocket"
	wsRedis "evento-notification/internal/websocket/delivery/redis"
	"evento-notification/pkg/discord"
	"evento-notification/pkg/log"
	pkgPostgre "evento-notification/pkg/postgre"
	pkgRedis "evento-notification/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const defaultShutdownTimeout = 30 * time.Second

// HTTPServer represents the HTTP server with all dependencies.
// New() only wires dependencies and validates them.
// Run() (in httpserver.go) is responsible for starting background services and HTTP serving.
type HTTPServer struct {
	// Server configuration
	gin             *gin.Engine
	logger          log.Logger
	host            string
	port            int
	environment     string
	shutdownTimeout time.Duration

	// Real-time configuration
	wsConfig       config.WebSocketConfig
	listenerConfig config.ListenerConfig
	enforcement    notification.Enforcement

	// Storage
	postgresDB   *sqlx.DB
	listenerConn pkgPostgre.NotifyConn
	redis        pkgRedis.IRedis

	// Monitoring
	discord discord.IDiscord

	// Wired in mapHandlers
	wsUC         websocket.UseCase
	notifUC      notification.UseCase
	listener     pgnotify.Listener
	wsSubscriber wsRedis.Subscriber
}

// Config is the constructor input for HTTPServer.
type Config struct {
	// Server configuration
	Host            string
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	// Real-time configuration
	WebSocket    config.WebSocketConfig
	Listener     config.ListenerConfig
	Notification config.NotificationConfig

	// Storage
	PostgresDB   *sqlx.DB
	ListenerConn pkgPostgre.NotifyConn
	// Redis enables the multi-instance relay. Optional.
	Redis pkgRedis.IRedis

	// Discord receives fatal alerts. Optional.
	Discord discord.IDiscord
}

// New creates a new HTTPServer instance with the provided configuration.
// Note: This does NOT start any goroutines. Use (*HTTPServer).Run() to start the service.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode == gin.ReleaseMode || cfg.Mode == gin.DebugMode || cfg.Mode == gin.TestMode {
		gin.SetMode(cfg.Mode)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		// Server configuration
		gin:             gin.New(),
		logger:          logger,
		host:            cfg.Host,
		port:            cfg.Port,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,

		// Real-time configuration
		wsConfig:       cfg.WebSocket,
		listenerConfig: cfg.Listener,
		enforcement:    notification.Enforcement(cfg.Notification.PreferenceEnforcement),

		// Storage
		postgresDB:   cfg.PostgresDB,
		listenerConn: cfg.ListenerConn,
		redis:        cfg.Redis,

		// Monitoring
		discord: cfg.Discord,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate ensures all required dependencies are provided.
func (s *HTTPServer) validate() error {
	if s.logger == nil {
		return errors.New("logger is required")
	}
	if s.port == 0 {
		return errors.New("port is required")
	}
	if s.postgresDB == nil {
		return errors.New("PostgreSQL pool is required")
	}
	if s.listenerConn == nil {
		return errors.New("PostgreSQL listen connection is required")
	}
	switch s.enforcement {
	case notification.EnforcementNone, notification.EnforcementPersist, notification.EnforcementBroadcast, "":
	default:
		return errors.New("unknown preference enforcement: " + string(s.enforcement))
	}

	return nil
}
