package postgres

import (
	"context"
	"database/sql"
	"errors"

	"evento-notification/internal/model"
	"evento-notification/internal/notification/repository"
	postgresPkg "evento-notification/pkg/postgre"
)

func (r *implRepository) GetPreference(ctx context.Context, opts repository.GetPreferenceOptions) (model.NotificationPreference, error) {
	var row preferenceRow
	err := r.db.GetContext(ctx, &row, selectPreferenceQuery, opts.UserID, string(opts.Type))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NotificationPreference{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.notification.repository.postgres.GetPreference.GetContext: %v", err)
		return model.NotificationPreference{}, err
	}

	return row.toModel(), nil
}

func (r *implRepository) UpsertPreference(ctx context.Context, opts repository.UpsertPreferenceOptions) (model.NotificationPreference, error) {
	var row preferenceRow
	err := r.db.QueryRowxContext(ctx, upsertPreferenceQuery,
		postgresPkg.NewUUID(), opts.UserID, string(opts.Type),
		opts.Decision.InApp, opts.Decision.Email, opts.Decision.Push,
	).StructScan(&row)
	if err != nil {
		r.l.Errorf(ctx, "internal.notification.repository.postgres.UpsertPreference.StructScan: %v", err)
		return model.NotificationPreference{}, err
	}

	return row.toModel(), nil
}
