package notification

import (
	"context"

	"evento-notification/internal/model"
)

// UseCase is the dispatcher: it turns change events into persisted,
// fanned-out notifications and serves replay and preference operations.
type UseCase interface {
	// HandleChangeEvent persists a notification for the affected user and
	// pushes it to the user's room. Persistence and delivery failures are
	// logged, not returned.
	HandleChangeEvent(ctx context.Context, ev ChangeEvent) (HandleOutput, error)

	// ReplayNotifications returns the user's notifications, newest first.
	// A store failure yields an empty list.
	ReplayNotifications(ctx context.Context, userID string) []model.Notification
	// ReplayToConnection emits the replay list to a single connection.
	ReplayToConnection(ctx context.Context, connID, userID string) error

	// ListNotifications returns one page of the user's notifications, newest first.
	ListNotifications(ctx context.Context, input ListNotificationsInput) (ListNotificationsOutput, error)
	MarkRead(ctx context.Context, notificationID string, read bool) (model.Notification, error)

	// Decide returns the delivery decision for (user, type), falling back to
	// model.DefaultDeliveryDecision when nothing is stored.
	Decide(ctx context.Context, userID string, t model.NotificationType) (model.DeliveryDecision, error)
	UpdatePreferences(ctx context.Context, input UpdatePreferencesInput) ([]model.NotificationPreference, error)
}

// Broadcaster delivers named client events to rooms or single connections.
type Broadcaster interface {
	Broadcast(ctx context.Context, userID, event string, payload any) error
	EmitToConnection(ctx context.Context, connID, event string, payload any) error
}
