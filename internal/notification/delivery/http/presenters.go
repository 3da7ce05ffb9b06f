package http

import (
	"strings"
	"time"

	"evento-notification/internal/model"
	"evento-notification/internal/notification"
	"evento-notification/pkg/errors"
	"evento-notification/pkg/paginator"

	"github.com/goccy/go-json"
)

type preferenceReq struct {
	InApp bool `json:"inApp"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// updatePreferencesReq is keyed by preference key (newsletter, event_change, ...).
// Unknown keys are ignored; a known key must hold a {inApp, email, push} object.
type updatePreferencesReq map[string]json.RawMessage

func (r updatePreferencesReq) toInput(userID string) (notification.UpdatePreferencesInput, error) {
	verr := errors.NewValidationErrorCollector()
	prefs := make(map[model.NotificationType]model.DeliveryDecision, len(r))
	for key, raw := range r {
		t, ok := model.NotificationTypeFromKey(key)
		if !ok {
			continue
		}
		if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
			verr.Add(errCodeInvalidPreference, key, msgPreferenceNotObject)
			continue
		}
		var p preferenceReq
		if err := json.Unmarshal(raw, &p); err != nil {
			verr.Add(errCodeInvalidPreference, key, msgPreferenceNotBoolean)
			continue
		}
		prefs[t] = model.DeliveryDecision{InApp: p.InApp, Email: p.Email, Push: p.Push}
	}
	if err := verr.Err(); err != nil {
		return notification.UpdatePreferencesInput{}, err
	}

	return notification.UpdatePreferencesInput{
		UserID:      userID,
		Preferences: prefs,
	}, nil
}

type markReadReq struct {
	Read *bool `json:"read" binding:"required"`
}

type preferenceResp struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	Type   string `json:"type"`
	InApp  bool   `json:"inApp"`
	Email  bool   `json:"email"`
	Push   bool   `json:"push"`
}

func newPreferenceResp(p model.NotificationPreference) preferenceResp {
	return preferenceResp{
		ID:     p.ID,
		UserID: p.UserID,
		Type:   string(p.Type),
		InApp:  p.InApp,
		Email:  p.Email,
		Push:   p.Push,
	}
}

func newPreferenceListResp(prefs []model.NotificationPreference) []preferenceResp {
	res := make([]preferenceResp, 0, len(prefs))
	for _, p := range prefs {
		res = append(res, newPreferenceResp(p))
	}
	return res
}

type notificationResp struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func newNotificationResp(n model.Notification) notificationResp {
	return notificationResp{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func newNotificationListResp(ns []model.Notification) []notificationResp {
	res := make([]notificationResp, 0, len(ns))
	for _, n := range ns {
		res = append(res, newNotificationResp(n))
	}
	return res
}

type listNotificationsResp struct {
	Items []notificationResp          `json:"items"`
	Meta  paginator.PaginatorResponse `json:"meta"`
}
