package usecase

import (
	"context"
	"strings"

	"evento-notification/internal/metrics"
	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/internal/notification/repository"
	ws "evento-notification/internal/websocket"
)

func (uc *implUseCase) HandleChangeEvent(ctx context.Context, ev notification.ChangeEvent) (notification.HandleOutput, error) {
	if ev == nil {
		return notification.HandleOutput{}, notification.ErrInvalidPayload
	}

	userID := strings.TrimSpace(ev.UserID())
	if userID == "" {
		return notification.HandleOutput{}, notification.ErrInvalidUserID
	}

	out := notification.HandleOutput{
		Notification: model.Notification{
			UserID:  userID,
			Type:    ev.NotificationType(),
			Message: ev.Message(),
		},
		Decision: model.DefaultDeliveryDecision(),
	}

	if uc.enforcement != notification.EnforcementNone {
		decision, err := uc.Decide(ctx, userID, ev.NotificationType())
		if err != nil {
			uc.l.Warnf(ctx, "internal.notification.usecase.HandleChangeEvent.Decide: %v", err)
		}
		out.Decision = decision
	}

	if uc.enforcement == notification.EnforcementPersist && !out.Decision.InApp {
		metrics.NotificationsSuppressed.WithLabelValues(string(notification.EnforcementPersist)).Inc()
		uc.l.Debugf(ctx, "in-app disabled for user=%s type=%s, skipping", userID, ev.NotificationType())
		return out, nil
	}

	created, err := uc.repo.CreateNotification(ctx, repository.CreateNotificationOptions{
		UserID:  userID,
		Type:    ev.NotificationType(),
		Message: ev.Message(),
	})
	if err != nil {
		metrics.NotificationPersistErrors.Inc()
		uc.l.Errorf(ctx, "internal.notification.usecase.HandleChangeEvent.CreateNotification: %v", err)
	} else {
		metrics.NotificationsPersisted.WithLabelValues(string(created.Type)).Inc()
		out.Notification = created
		out.Persisted = true
	}

	if uc.enforcement == notification.EnforcementBroadcast && !out.Decision.InApp {
		metrics.NotificationsSuppressed.WithLabelValues(string(notification.EnforcementBroadcast)).Inc()
		return out, nil
	}

	uc.pushToRoom(ctx, ev, out.Notification)
	out.Broadcast = true

	return out, nil
}

// pushToRoom sends the raw change, the structured notification and the
// reconciled list, in that order. Each send is independent.
func (uc *implUseCase) pushToRoom(ctx context.Context, ev notification.ChangeEvent, n model.Notification) {
	if err := uc.broadcaster.Broadcast(ctx, n.UserID, ws.EventNewEvent, ev.Raw()); err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.pushToRoom.Broadcast.raw: %v", err)
	}

	push := notification.NewNotificationPush{
		NotificationID: n.ID,
		Type:           n.Type,
		Message:        n.Message,
	}
	if err := uc.broadcaster.Broadcast(ctx, n.UserID, ws.EventNewEvent, push); err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.pushToRoom.Broadcast.structured: %v", err)
	}

	list := uc.ReplayNotifications(ctx, n.UserID)
	if err := uc.broadcaster.Broadcast(ctx, n.UserID, ws.EventNotifications, list); err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.pushToRoom.Broadcast.list: %v", err)
	}
}
