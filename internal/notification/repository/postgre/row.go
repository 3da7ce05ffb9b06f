package postgres

import (
	"time"

	"evento-notification/internal/model"
)

type notificationRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Message   string    `db:"message"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      model.NotificationType(r.Type),
		Message:   r.Message,
		Read:      r.Read,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type preferenceRow struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Type   string `db:"type"`
	InApp  bool   `db:"in_app"`
	Email  bool   `db:"email"`
	Push   bool   `db:"push"`
}

func (r preferenceRow) toModel() model.NotificationPreference {
	return model.NotificationPreference{
		ID:     r.ID,
		UserID: r.UserID,
		Type:   model.NotificationType(r.Type),
		InApp:  r.InApp,
		Email:  r.Email,
		Push:   r.Push,
	}
}
