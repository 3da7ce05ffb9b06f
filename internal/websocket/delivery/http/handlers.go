package http

import (
	"context"
	"errors"

	"evento-notification/internal/websocket"
	"evento-notification/pkg/response"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// HandleWebSocket upgrades the request and registers an unidentified connection.
// The client then sends {"event":"identify","data":"<userId>"}.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.limiter.Allow(c.ClientIP()) {
		h.logger.Warnf(ctx, "internal.websocket.delivery.http.HandleWebSocket: upgrade rate limit exceeded for %s", c.ClientIP())
		response.HttpError(c, errTooManyUpgrades)
		return
	}

	if err := h.uc.Accepting(ctx); err != nil {
		response.ErrorWithMap(c, err, errMap)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf(ctx, "internal.websocket.delivery.http.HandleWebSocket.Upgrade: %v", err)
		return
	}

	connID, err := h.uc.Connect(context.Background(), websocket.ConnectInput{
		Transport:  conn,
		Handler:    h,
		RemoteAddr: c.ClientIP(),
	})
	if err != nil {
		h.logger.Warnf(ctx, "internal.websocket.delivery.http.HandleWebSocket.Connect: %v", err)
		_ = conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseTryAgainLater, err.Error()))
		_ = conn.Close()
		return
	}

	h.logger.Debugf(ctx, "websocket %s accepted", connID)
}

// HandleClientMessage routes client frames for one connection.
func (h *Handler) HandleClientMessage(ctx context.Context, connID string, msg websocket.ClientMessage) {
	switch msg.Event {
	case websocket.EventIdentify:
		h.identify(ctx, connID, msg)
	default:
		h.reject(ctx, connID, websocket.ErrUnknownEvent)
	}
}

func (h *Handler) identify(ctx context.Context, connID string, msg websocket.ClientMessage) {
	userID, err := websocket.ParseIdentify(msg.Data)
	if err != nil {
		h.reject(ctx, connID, err)
		return
	}

	if err := h.uc.Identify(ctx, connID, userID); err != nil {
		if !errors.Is(err, websocket.ErrConnectionNotFound) {
			h.logger.Warnf(ctx, "internal.websocket.delivery.http.identify.Identify: %v", err)
			h.reject(ctx, connID, err)
		}
		return
	}

	if err := h.notifUC.ReplayToConnection(ctx, connID, userID); err != nil {
		h.logger.Debugf(ctx, "replay to %s skipped: %v", connID, err)
	}
}

func (h *Handler) reject(ctx context.Context, connID string, err error) {
	_ = h.uc.EmitToConnection(ctx, connID, websocket.EventError, websocket.ErrorPayload{Message: err.Error()})
}

// Stats reports registry counters.
func (h *Handler) Stats(c *gin.Context) {
	stats := h.uc.GetStats(c.Request.Context())
	response.OK(c, gin.H{
		"active_connections":     stats.ActiveConnections,
		"identified_connections": stats.IdentifiedConnections,
		"total_unique_users":     stats.TotalUniqueUsers,
	})
}
