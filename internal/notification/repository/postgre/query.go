package postgres

import (
	"fmt"

	"evento-notification/internal/notification/repository"
)

const (
	notificationColumns = `id, user_id, type, message, read, created_at`
	preferenceColumns   = `id, user_id, type, in_app, email, push`
)

const (
	insertNotificationQuery = `INSERT INTO notifications (id, user_id, type, message, read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING ` + notificationColumns

	countNotificationsQuery = `SELECT COUNT(*) FROM notifications WHERE user_id = $1`

	updateReadQuery = `UPDATE notifications SET read = $2 WHERE id = $1
		RETURNING ` + notificationColumns

	selectPreferenceQuery = `SELECT ` + preferenceColumns + `
		FROM notification_preferences WHERE user_id = $1 AND type = $2`

	upsertPreferenceQuery = `INSERT INTO notification_preferences (id, user_id, type, in_app, email, push)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, type)
		DO UPDATE SET in_app = EXCLUDED.in_app,
		              email = EXCLUDED.email,
		              push = EXCLUDED.push
		RETURNING ` + preferenceColumns
)

func buildListNotificationsQuery(opts repository.ListNotificationsOptions) (string, []any) {
	q := `SELECT ` + notificationColumns + `
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{opts.UserID}

	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, opts.Offset)
	}

	return q, args
}
