package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the preference and notification routes under r (normally /api/v1).
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	settings := r.Group("/settings/:userId/notifications")
	{
		settings.PUT("", h.UpdatePreferences)
		settings.POST("", h.UpdatePreferences)
		settings.GET("/:type", h.GetPreference)
	}

	r.GET("/users/:userId/notifications", h.ListNotifications)
	r.PATCH("/notifications/:id/read", h.MarkRead)
}
