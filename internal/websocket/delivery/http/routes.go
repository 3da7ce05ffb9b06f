package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the WebSocket routes.
// /ws is public: the client identifies itself over the socket.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws", h.HandleWebSocket)
	r.GET("/ws/stats", h.Stats)
}
