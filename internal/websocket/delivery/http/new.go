package http

import (
	"net/http"
	"time"

	"evento-notification/internal/notification"
	"evento-notification/internal/websocket"
	"evento-notification/pkg/log"

	gorilla "github.com/gorilla/websocket"
)

// WSConfig is the transport configuration for the upgrade endpoint.
type WSConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	// UpgradeRateLimit is the number of upgrades allowed per client IP per minute. Zero disables it.
	UpgradeRateLimit int
}

type Handler struct {
	uc       websocket.UseCase
	notifUC  notification.UseCase
	logger   log.Logger
	upgrader gorilla.Upgrader
	limiter  *upgradeLimiter
}

func New(uc websocket.UseCase, notifUC notification.UseCase, logger log.Logger, wsCfg WSConfig) *Handler {
	h := &Handler{
		uc:      uc,
		notifUC: notifUC,
		logger:  logger,
		limiter: newUpgradeLimiter(wsCfg.UpgradeRateLimit, time.Minute),
	}
	h.upgrader = gorilla.Upgrader{
		ReadBufferSize:  wsCfg.ReadBufferSize,
		WriteBufferSize: wsCfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isOriginAllowed(r.Header.Get("Origin"), wsCfg.AllowedOrigins)
		},
	}
	return h
}
