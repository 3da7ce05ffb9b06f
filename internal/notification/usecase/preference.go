package usecase

import (
	"context"
	"errors"
	"strings"

	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/internal/notification/repository"
)

func (uc *implUseCase) Decide(ctx context.Context, userID string, t model.NotificationType) (model.DeliveryDecision, error) {
	if !t.IsValid() {
		return model.DefaultDeliveryDecision(), notification.ErrInvalidType
	}

	pref, err := uc.repo.GetPreference(ctx, repository.GetPreferenceOptions{UserID: userID, Type: t})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultDeliveryDecision(), nil
		}
		uc.l.Errorf(ctx, "internal.notification.usecase.Decide.GetPreference: %v", err)
		return model.DefaultDeliveryDecision(), err
	}

	return pref.Decision(), nil
}

func (uc *implUseCase) UpdatePreferences(ctx context.Context, input notification.UpdatePreferencesInput) ([]model.NotificationPreference, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, notification.ErrInvalidUserID
	}
	if len(input.Preferences) == 0 {
		return nil, notification.ErrNoPreferences
	}
	for t := range input.Preferences {
		if !t.IsValid() {
			return nil, notification.ErrInvalidType
		}
	}

	res := make([]model.NotificationPreference, 0, len(input.Preferences))
	for _, t := range model.NotificationTypes {
		decision, ok := input.Preferences[t]
		if !ok {
			continue
		}

		pref, err := uc.repo.UpsertPreference(ctx, repository.UpsertPreferenceOptions{
			UserID:   userID,
			Type:     t,
			Decision: decision,
		})
		if err != nil {
			uc.l.Errorf(ctx, "internal.notification.usecase.UpdatePreferences.UpsertPreference: %v", err)
			return nil, err
		}
		res = append(res, pref)
	}

	return res, nil
}
