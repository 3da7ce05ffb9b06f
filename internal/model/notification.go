package model

import (
	"time"
)

// NotificationType is the category of a notification.
type NotificationType string

const (
	NotificationTypeNewsletter        NotificationType = "NEWSLETTER"
	NotificationTypeEventRegistration NotificationType = "EVENT_REGISTRATION"
	NotificationTypeEventInvite       NotificationType = "EVENT_INVITE"
	NotificationTypeEventChange       NotificationType = "EVENT_CHANGE"
	NotificationTypeJoinEvent         NotificationType = "JOIN_EVENT"
)

// NotificationTypes lists every known type in declaration order.
var NotificationTypes = []NotificationType{
	NotificationTypeNewsletter,
	NotificationTypeEventRegistration,
	NotificationTypeEventInvite,
	NotificationTypeEventChange,
	NotificationTypeJoinEvent,
}

// IsValid reports whether t is one of the known notification types.
func (t NotificationType) IsValid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PreferenceKey is the lower-case key used for t in preference request bodies.
func (t NotificationType) PreferenceKey() string {
	switch t {
	case NotificationTypeNewsletter:
		return "newsletter"
	case NotificationTypeEventRegistration:
		return "event_registration"
	case NotificationTypeEventInvite:
		return "event_invite"
	case NotificationTypeEventChange:
		return "event_change"
	case NotificationTypeJoinEvent:
		return "join_event"
	default:
		return ""
	}
}

// NotificationTypeFromKey resolves either the preference key or the
// upper-case type name.
func NotificationTypeFromKey(key string) (NotificationType, bool) {
	for _, t := range NotificationTypes {
		if key == t.PreferenceKey() || key == string(t) {
			return t, true
		}
	}
	return "", false
}

// Notification is a persisted, user-owned notification.
// Only Read changes after creation.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationPreference is the per (user, type) delivery setting.
type NotificationPreference struct {
	ID     string           `json:"id"`
	UserID string           `json:"userId"`
	Type   NotificationType `json:"type"`
	InApp  bool             `json:"inApp"`
	Email  bool             `json:"email"`
	Push   bool             `json:"push"`
}

// Decision returns the delivery decision stored in p.
func (p NotificationPreference) Decision() DeliveryDecision {
	return DeliveryDecision{InApp: p.InApp, Email: p.Email, Push: p.Push}
}

// DeliveryDecision tells which channels a notification may use.
type DeliveryDecision struct {
	InApp bool `json:"inApp"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// DefaultDeliveryDecision applies when a user has no stored preference.
func DefaultDeliveryDecision() DeliveryDecision {
	return DeliveryDecision{InApp: true}
}
