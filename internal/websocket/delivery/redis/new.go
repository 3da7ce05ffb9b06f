// Package redis relays room broadcasts between service instances over Redis pub/sub.
package redis

import (
	"context"
	"strings"
	"sync"

	"evento-notification/internal/notification"
	"evento-notification/internal/websocket"
	"evento-notification/pkg/log"
	pkgRedis "evento-notification/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// ChannelPrefix prefixes the per-user relay channel: user_noti:<userId>.
const ChannelPrefix = "user_noti:"

func userChannel(userID string) string {
	return ChannelPrefix + userID
}

func userFromChannel(channel string) (string, bool) {
	userID, ok := strings.CutPrefix(channel, ChannelPrefix)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

type Subscriber interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type subscriber struct {
	redis  pkgRedis.IRedis
	uc     websocket.UseCase
	logger log.Logger

	pubsub *goredis.PubSub
	wg     sync.WaitGroup
	quit   chan struct{}
	once   sync.Once
}

// NewSubscriber delivers relayed envelopes to the local registry.
func NewSubscriber(redis pkgRedis.IRedis, uc websocket.UseCase, logger log.Logger) Subscriber {
	return &subscriber{
		redis:  redis,
		uc:     uc,
		logger: logger,
		quit:   make(chan struct{}),
	}
}

type publisher struct {
	redis  pkgRedis.IRedis
	local  websocket.UseCase
	logger log.Logger
}

// NewPublisher returns a broadcaster that fans room pushes out through Redis.
// Targeted emits stay on the local registry, which owns the connection.
func NewPublisher(redis pkgRedis.IRedis, local websocket.UseCase, logger log.Logger) notification.Broadcaster {
	return &publisher{
		redis:  redis,
		local:  local,
		logger: logger,
	}
}
