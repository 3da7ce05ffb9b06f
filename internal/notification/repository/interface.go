package repository

import (
	"context"

	"evento-notification/internal/model"
)

type Repository interface {
	NotificationRepository
	PreferenceRepository
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, opts CreateNotificationOptions) (model.Notification, error)
	// ListNotifications returns newest first; ties on created_at break on id, descending.
	ListNotifications(ctx context.Context, opts ListNotificationsOptions) ([]model.Notification, error)
	CountNotifications(ctx context.Context, opts CountNotificationsOptions) (int, error)
	UpdateRead(ctx context.Context, opts UpdateReadOptions) (model.Notification, error)
}

type PreferenceRepository interface {
	// GetPreference returns ErrNotFound when no row exists for (user, type).
	GetPreference(ctx context.Context, opts GetPreferenceOptions) (model.NotificationPreference, error)
	UpsertPreference(ctx context.Context, opts UpsertPreferenceOptions) (model.NotificationPreference, error)
}
