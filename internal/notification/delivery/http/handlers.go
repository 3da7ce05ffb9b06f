package http

import (
	"io"

	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/pkg/paginator"
	"evento-notification/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// UpdatePreferences upserts the delivery preferences present in the body.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.UpdatePreferences.ReadAll: %v", err)
		response.Error(c, errWrongBody, nil)
		return
	}
	var req updatePreferencesReq
	if err := json.Unmarshal(body, &req); err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.UpdatePreferences.Unmarshal: %v", err)
		response.Error(c, errWrongBody, nil)
		return
	}

	input, err := req.toInput(c.Param("userId"))
	if err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.UpdatePreferences.toInput: %v", err)
		response.Error(c, err, nil)
		return
	}

	prefs, err := h.uc.UpdatePreferences(ctx, input)
	if err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.UpdatePreferences.UpdatePreferences: %v", err)
		response.ErrorWithMap(c, err, errMap)
		return
	}

	response.OK(c, newPreferenceListResp(prefs))
}

// GetPreference returns the effective delivery decision for one type.
func (h *Handler) GetPreference(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	t, ok := model.NotificationTypeFromKey(c.Param("type"))
	if !ok {
		response.Error(c, errWrongType, nil)
		return
	}

	decision, err := h.uc.Decide(ctx, userID, t)
	if err != nil {
		h.l.Errorf(ctx, "internal.notification.delivery.http.GetPreference.Decide: %v", err)
		response.ErrorWithMap(c, err, errMap)
		return
	}

	response.OK(c, preferenceResp{
		UserID: userID,
		Type:   string(t),
		InApp:  decision.InApp,
		Email:  decision.Email,
		Push:   decision.Push,
	})
}

// ListNotifications returns one page of the user's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()

	var pq paginator.PaginateQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.ListNotifications.ShouldBindQuery: %v", err)
		response.Error(c, errWrongQuery, nil)
		return
	}

	out, err := h.uc.ListNotifications(ctx, notification.ListNotificationsInput{
		UserID: c.Param("userId"),
		Query:  pq,
	})
	if err != nil {
		h.l.Errorf(ctx, "internal.notification.delivery.http.ListNotifications.ListNotifications: %v", err)
		response.ErrorWithMap(c, err, errMap)
		return
	}

	response.OK(c, listNotificationsResp{
		Items: newNotificationListResp(out.Notifications),
		Meta:  out.Paginator.ToResponse(),
	})
}

// MarkRead sets the read flag of one notification.
func (h *Handler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()

	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.MarkRead.ShouldBindJSON: %v", err)
		response.Error(c, errWrongBody, nil)
		return
	}

	n, err := h.uc.MarkRead(ctx, c.Param("id"), *req.Read)
	if err != nil {
		h.l.Warnf(ctx, "internal.notification.delivery.http.MarkRead.MarkRead: %v", err)
		response.ErrorWithMap(c, err, errMap)
		return
	}

	response.OK(c, newNotificationResp(n))
}
