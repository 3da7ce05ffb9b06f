package postgres

import (
	"context"
	"database/sql"
	"errors"

	"evento-notification/internal/model"
	"evento-notification/internal/notification/repository"
	postgresPkg "evento-notification/pkg/postgre"
)

func (r *implRepository) CreateNotification(ctx context.Context, opts repository.CreateNotificationOptions) (model.Notification, error) {
	var row notificationRow
	err := r.db.QueryRowxContext(ctx, insertNotificationQuery,
		postgresPkg.NewUUID(), opts.UserID, string(opts.Type), opts.Message, r.clock().UTC(),
	).StructScan(&row)
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.CreateNotification.StructScan: %v", err)
		return model.Notification{}, err
	}

	return row.toModel(), nil
}

func (r *implRepository) ListNotifications(ctx context.Context, opts repository.ListNotificationsOptions) ([]model.Notification, error) {
	q, args := buildListNotificationsQuery(opts)

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.ListNotifications.SelectContext: %v", err)
		return nil, err
	}

	res := make([]model.Notification, len(rows))
	for i, row := range rows {
		res[i] = row.toModel()
	}

	return res, nil
}

func (r *implRepository) CountNotifications(ctx context.Context, opts repository.CountNotificationsOptions) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, countNotificationsQuery, opts.UserID); err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.CountNotifications.GetContext: %v", err)
		return 0, err
	}
	return total, nil
}

func (r *implRepository) UpdateRead(ctx context.Context, opts repository.UpdateReadOptions) (model.Notification, error) {
	if err := postgresPkg.IsUUID(opts.ID); err != nil {
		r.l.Warnf(ctx, "internal.notification.repository.postgres.UpdateRead.IsUUID: %v", err)
		return model.Notification{}, repository.ErrNotFound
	}

	var row notificationRow
	err := r.db.QueryRowxContext(ctx, updateReadQuery, opts.ID, opts.Read).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.notification.repository.postgres.UpdateRead.StructScan: %v", err)
		return model.Notification{}, err
	}

	return row.toModel(), nil
}
