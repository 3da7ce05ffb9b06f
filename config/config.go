package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Storage Configuration
	Postgres PostgresConfig
	Redis    RedisConfig

	// Real-time Configuration
	WebSocket    WebSocketConfig
	Listener     ListenerConfig
	Notification NotificationConfig

	// Monitoring Configuration
	Discord DiscordConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// ServerConfig is the configuration for the HTTP/WebSocket server
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for PostgreSQL.
// The same credentials are used for the query pool and the LISTEN connection.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is the configuration for Redis.
// Redis is only dialed when RelayEnabled is set.
type RedisConfig struct {
	RelayEnabled bool
	Host         string
	Port         int
	Password     string
	DB           int
	UseTLS       bool

	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// WebSocketConfig is the configuration for WebSocket connections
type WebSocketConfig struct {
	PingInterval    time.Duration
	PongWait        time.Duration
	WriteWait       time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	MaxConnections  int
	AllowedOrigins  []string
	// UpgradeRateLimit is the number of upgrades allowed per client IP per minute. Zero disables it.
	UpgradeRateLimit int
}

// ListenerConfig is the configuration for the database change listener
type ListenerConfig struct {
	Channels  []string
	QueueSize int
	// LeaderLockKey is the advisory lock that elects the one instance which
	// listens and dispatches. Zero disables the election.
	LeaderLockKey   int64
	StandbyInterval time.Duration
}

// NotificationConfig is the configuration for the dispatcher
type NotificationConfig struct {
	// PreferenceEnforcement is one of "none", "persist", "broadcast".
	PreferenceEnforcement string
}

// DiscordConfig is the configuration for Discord webhook alerts
type DiscordConfig struct {
	WebhookID    string
	WebhookToken string
}

// Load loads configuration using Viper
func Load() (*Config, error) {
	viper.SetConfigName("notification-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/evento/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// The config file is optional; environment variables are enough.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment
	cfg.Environment.Name = viper.GetString("environment.name")

	// Server
	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Mode = viper.GetString("server.mode")

	// Logger
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Postgres
	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")
	cfg.Postgres.MaxOpenConns = viper.GetInt("postgres.max_open_conns")
	cfg.Postgres.MaxIdleConns = viper.GetInt("postgres.max_idle_conns")
	cfg.Postgres.ConnMaxLifetime = viper.GetDuration("postgres.conn_max_lifetime")

	// Redis
	cfg.Redis.RelayEnabled = viper.GetBool("redis.relay_enabled")
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.UseTLS = viper.GetBool("redis.use_tls")
	cfg.Redis.MaxRetries = viper.GetInt("redis.max_retries")
	cfg.Redis.MinIdleConns = viper.GetInt("redis.min_idle_conns")
	cfg.Redis.PoolSize = viper.GetInt("redis.pool_size")
	cfg.Redis.PoolTimeout = viper.GetDuration("redis.pool_timeout")
	cfg.Redis.ConnMaxIdleTime = viper.GetDuration("redis.conn_max_idle_time")
	cfg.Redis.ConnMaxLifetime = viper.GetDuration("redis.conn_max_lifetime")

	// WebSocket
	cfg.WebSocket.PingInterval = viper.GetDuration("websocket.ping_interval")
	cfg.WebSocket.PongWait = viper.GetDuration("websocket.pong_wait")
	cfg.WebSocket.WriteWait = viper.GetDuration("websocket.write_wait")
	cfg.WebSocket.MaxMessageSize = viper.GetInt64("websocket.max_message_size")
	cfg.WebSocket.ReadBufferSize = viper.GetInt("websocket.read_buffer_size")
	cfg.WebSocket.WriteBufferSize = viper.GetInt("websocket.write_buffer_size")
	cfg.WebSocket.SendBufferSize = viper.GetInt("websocket.send_buffer_size")
	cfg.WebSocket.MaxConnections = viper.GetInt("websocket.max_connections")
	cfg.WebSocket.AllowedOrigins = getStringList("websocket.allowed_origins")
	cfg.WebSocket.UpgradeRateLimit = viper.GetInt("websocket.upgrade_rate_limit")

	// Listener
	cfg.Listener.Channels = getStringList("listener.channels")
	cfg.Listener.QueueSize = viper.GetInt("listener.queue_size")
	cfg.Listener.LeaderLockKey = viper.GetInt64("listener.leader_lock_key")
	cfg.Listener.StandbyInterval = viper.GetDuration("listener.standby_interval")

	// Notification
	cfg.Notification.PreferenceEnforcement = viper.GetString("notification.preference_enforcement")

	// Discord
	cfg.Discord.WebhookID = viper.GetString("discord.webhook_id")
	cfg.Discord.WebhookToken = viper.GetString("discord.webhook_token")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getStringList reads a list from YAML or from an env value separated by
// commas or whitespace.
func getStringList(key string) []string {
	var out []string
	for _, item := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment.name", "production")

	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.mode", "release")

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	// Postgres
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.dbname", "evento")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.max_open_conns", 25)
	viper.SetDefault("postgres.max_idle_conns", 5)
	viper.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)

	// Redis
	viper.SetDefault("redis.relay_enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.use_tls", false)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.min_idle_conns", 10)
	viper.SetDefault("redis.pool_size", 100)
	viper.SetDefault("redis.pool_timeout", 4*time.Second)
	viper.SetDefault("redis.conn_max_idle_time", 5*time.Minute)
	viper.SetDefault("redis.conn_max_lifetime", 30*time.Minute)

	// WebSocket
	viper.SetDefault("websocket.ping_interval", 30*time.Second)
	viper.SetDefault("websocket.pong_wait", 60*time.Second)
	viper.SetDefault("websocket.write_wait", 10*time.Second)
	viper.SetDefault("websocket.max_message_size", 512)
	viper.SetDefault("websocket.read_buffer_size", 1024)
	viper.SetDefault("websocket.write_buffer_size", 1024)
	viper.SetDefault("websocket.send_buffer_size", 256)
	viper.SetDefault("websocket.max_connections", 10000)
	viper.SetDefault("websocket.allowed_origins", []string{"*"})
	viper.SetDefault("websocket.upgrade_rate_limit", 60)

	// Listener
	viper.SetDefault("listener.channels", []string{"new_event", "join_event", "event_change"})
	viper.SetDefault("listener.queue_size", 1024)
	viper.SetDefault("listener.leader_lock_key", 0x65766e74)
	viper.SetDefault("listener.standby_interval", 5*time.Second)

	// Notification
	viper.SetDefault("notification.preference_enforcement", "none")
}

func validate(cfg *Config) error {
	// Validate Postgres
	if cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if cfg.Postgres.DBName == "" {
		return fmt.Errorf("postgres.dbname is required")
	}

	// Validate Redis
	if cfg.Redis.RelayEnabled && cfg.Redis.Host == "" {
		return fmt.Errorf("redis.host is required when redis.relay_enabled is set")
	}

	// Validate Listener
	if len(cfg.Listener.Channels) == 0 {
		return fmt.Errorf("listener.channels must not be empty")
	}
	if cfg.Listener.QueueSize <= 0 {
		return fmt.Errorf("listener.queue_size must be positive")
	}
	if cfg.Listener.LeaderLockKey != 0 && cfg.Listener.StandbyInterval <= 0 {
		return fmt.Errorf("listener.standby_interval must be positive when listener.leader_lock_key is set")
	}

	// Validate WebSocket
	if cfg.WebSocket.PingInterval >= cfg.WebSocket.PongWait {
		return fmt.Errorf("websocket.ping_interval must be shorter than websocket.pong_wait")
	}

	// Validate Notification
	switch cfg.Notification.PreferenceEnforcement {
	case "none", "persist", "broadcast":
	default:
		return fmt.Errorf("notification.preference_enforcement must be one of none, persist, broadcast")
	}

	return nil
}
