package repository

import (
	"evento-notification/internal/model"
)

// CreateNotificationOptions contains options for creating a notification.
type CreateNotificationOptions struct {
	UserID  string
	Type    model.NotificationType
	Message string
}

// ListNotificationsOptions contains options for listing a user's notifications.
// Limit 0 means no limit.
type ListNotificationsOptions struct {
	UserID string
	Limit  int
	Offset int
}

type CountNotificationsOptions struct {
	UserID string
}

type UpdateReadOptions struct {
	ID   string
	Read bool
}

type GetPreferenceOptions struct {
	UserID string
	Type   model.NotificationType
}

// UpsertPreferenceOptions creates or replaces the (user, type) preference row.
type UpsertPreferenceOptions struct {
	UserID   string
	Type     model.NotificationType
	Decision model.DeliveryDecision
}
