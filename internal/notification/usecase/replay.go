package usecase

import (
	"context"
	"errors"
	"strings"

	"evento-notification/internal/metrics"
	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/internal/notification/repository"
	ws "evento-notification/internal/websocket"
	"evento-notification/pkg/paginator"
)

func (uc *implUseCase) ReplayNotifications(ctx context.Context, userID string) []model.Notification {
	list, err := uc.listAll(ctx, userID)
	if err != nil {
		metrics.ReplayErrors.Inc()
		uc.l.Errorf(ctx, "internal.notification.usecase.ReplayNotifications.listAll: %v", err)
		return []model.Notification{}
	}
	return list
}

func (uc *implUseCase) ReplayToConnection(ctx context.Context, connID, userID string) error {
	list := uc.ReplayNotifications(ctx, userID)
	if err := uc.broadcaster.EmitToConnection(ctx, connID, ws.EventNotifications, list); err != nil {
		uc.l.Warnf(ctx, "internal.notification.usecase.ReplayToConnection.EmitToConnection: %v", err)
		return err
	}
	return nil
}

// listAll reads the user's whole history; replay sends it unpaged.
func (uc *implUseCase) listAll(ctx context.Context, userID string) ([]model.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, notification.ErrInvalidUserID
	}

	list, err := uc.repo.ListNotifications(ctx, repository.ListNotificationsOptions{UserID: userID})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}

	return list, nil
}

func (uc *implUseCase) ListNotifications(ctx context.Context, input notification.ListNotificationsInput) (notification.ListNotificationsOutput, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return notification.ListNotificationsOutput{}, notification.ErrInvalidUserID
	}

	q := input.Query
	q.Adjust()

	total, err := uc.repo.CountNotifications(ctx, repository.CountNotificationsOptions{UserID: userID})
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.ListNotifications.CountNotifications: %v", err)
		return notification.ListNotificationsOutput{}, err
	}

	list := []model.Notification{}
	if q.Offset() < total {
		list, err = uc.repo.ListNotifications(ctx, repository.ListNotificationsOptions{
			UserID: userID,
			Limit:  q.Limit,
			Offset: q.Offset(),
		})
		if err != nil {
			uc.l.Errorf(ctx, "internal.notification.usecase.ListNotifications.ListNotifications: %v", err)
			return notification.ListNotificationsOutput{}, err
		}
		if list == nil {
			list = []model.Notification{}
		}
	}

	return notification.ListNotificationsOutput{
		Notifications: list,
		Paginator: paginator.Paginator{
			Total:       total,
			Count:       len(list),
			PerPage:     q.Limit,
			CurrentPage: q.Page,
		},
	}, nil
}

func (uc *implUseCase) MarkRead(ctx context.Context, notificationID string, read bool) (model.Notification, error) {
	n, err := uc.repo.UpdateRead(ctx, repository.UpdateReadOptions{ID: notificationID, Read: read})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Notification{}, notification.ErrNotificationNotFound
		}
		uc.l.Errorf(ctx, "internal.notification.usecase.MarkRead.UpdateRead: %v", err)
		return model.Notification{}, err
	}
	return n, nil
}
