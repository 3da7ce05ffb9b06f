package usecase

import (
	"sync"
	"time"

	ws "evento-notification/internal/websocket"
	"evento-notification/pkg/log"
)

// Config holds per-connection limits and keepalive timings.
type Config struct {
	MaxConnections int
	SendBufferSize int
	MaxMessageSize int64
	PongWait       time.Duration
	PingInterval   time.Duration
	WriteWait      time.Duration
}

func (c Config) withDefaults() Config {
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = 256
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 512
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	return c
}

// implUseCase implements websocket.UseCase.
type implUseCase struct {
	logger log.Logger
	cfg    Config

	mu     sync.RWMutex
	conns  map[string]*Connection
	rooms  map[string]map[string]*Connection
	closed bool
}

var _ ws.UseCase = &implUseCase{}

// New creates the connection registry. Construct it once and share it.
func New(logger log.Logger, cfg Config) ws.UseCase {
	return newRegistry(logger, cfg)
}

func newRegistry(logger log.Logger, cfg Config) *implUseCase {
	return &implUseCase{
		logger: logger,
		cfg:    cfg.withDefaults(),
		conns:  make(map[string]*Connection),
		rooms:  make(map[string]map[string]*Connection),
	}
}
