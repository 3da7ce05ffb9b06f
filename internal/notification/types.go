package notification

import (
	"strings"

	"evento-notification/internal/model"
	"evento-notification/pkg/paginator"

	"github.com/goccy/go-json"
)

// Enforcement selects where preference gating applies in HandleChangeEvent.
type Enforcement string

const (
	// EnforcementNone persists and broadcasts regardless of preferences.
	EnforcementNone Enforcement = "none"
	// EnforcementPersist skips persistence and broadcast when in-app is off.
	EnforcementPersist Enforcement = "persist"
	// EnforcementBroadcast always persists but skips the live push when in-app is off.
	EnforcementBroadcast Enforcement = "broadcast"
)

// EventKind names a change channel.
type EventKind string

const (
	KindEventCreated EventKind = "new_event"
	KindEventJoined  EventKind = "join_event"
	KindEventChanged EventKind = "event_change"
)

// Kinds lists every channel the listener may subscribe to.
var Kinds = []EventKind{KindEventCreated, KindEventJoined, KindEventChanged}

const (
	MessageEventCreated = "You have successfully created a new event"
	MessageEventJoined  = "You have successfully joined an event"
	MessageEventChanged = "Your event has been updated"
)

// ChangeEvent is a decoded row-change notification.
type ChangeEvent interface {
	Kind() EventKind
	// UserID is the user the resulting notification belongs to.
	UserID() string
	NotificationType() model.NotificationType
	Message() string
	// Raw is the payload exactly as received.
	Raw() json.RawMessage
}

type rawPayload struct {
	raw json.RawMessage
}

func (p rawPayload) Raw() json.RawMessage { return p.raw }

// EventCreated is published on new_event when an organizer creates an event.
type EventCreated struct {
	rawPayload
	EventID     string `json:"eventID"`
	Title       string `json:"title"`
	OrganizerID string `json:"organizerID"`
	StartDate   string `json:"startDate,omitempty"`
}

func (EventCreated) Kind() EventKind  { return KindEventCreated }
func (e EventCreated) UserID() string { return e.OrganizerID }
func (EventCreated) NotificationType() model.NotificationType {
	return model.NotificationTypeEventRegistration
}
func (EventCreated) Message() string { return MessageEventCreated }

// EventJoined is published on join_event when a user joins an event.
type EventJoined struct {
	rawPayload
	EventID     string `json:"eventID"`
	Title       string `json:"title,omitempty"`
	AttendeeID  string `json:"userID"`
	OrganizerID string `json:"organizerID,omitempty"`
}

func (EventJoined) Kind() EventKind                          { return KindEventJoined }
func (e EventJoined) UserID() string                         { return e.AttendeeID }
func (EventJoined) NotificationType() model.NotificationType { return model.NotificationTypeJoinEvent }
func (EventJoined) Message() string                          { return MessageEventJoined }

// EventChanged is published on event_change when an event row is updated.
type EventChanged struct {
	rawPayload
	EventID     string `json:"eventID"`
	Title       string `json:"title"`
	OrganizerID string `json:"organizerID"`
}

func (EventChanged) Kind() EventKind  { return KindEventChanged }
func (e EventChanged) UserID() string { return e.OrganizerID }
func (EventChanged) NotificationType() model.NotificationType {
	return model.NotificationTypeEventChange
}
func (EventChanged) Message() string { return MessageEventChanged }

// DecodeChangeEvent turns a channel name and its JSON payload into a typed event.
func DecodeChangeEvent(channel string, payload []byte) (ChangeEvent, error) {
	var (
		ev  ChangeEvent
		err error
	)

	switch EventKind(channel) {
	case KindEventCreated:
		var e EventCreated
		err = json.Unmarshal(payload, &e)
		e.raw = cloneRaw(payload)
		ev = e
	case KindEventJoined:
		var e EventJoined
		err = json.Unmarshal(payload, &e)
		e.raw = cloneRaw(payload)
		ev = e
	case KindEventChanged:
		var e EventChanged
		err = json.Unmarshal(payload, &e)
		e.raw = cloneRaw(payload)
		ev = e
	default:
		return nil, ErrUnknownChannel
	}

	if err != nil {
		return nil, ErrInvalidPayload
	}
	if strings.TrimSpace(ev.UserID()) == "" {
		return nil, ErrInvalidPayload
	}

	return ev, nil
}

func cloneRaw(payload []byte) json.RawMessage {
	out := make(json.RawMessage, len(payload))
	copy(out, payload)
	return out
}

// HandleOutput reports what HandleChangeEvent did.
type HandleOutput struct {
	Notification model.Notification
	Decision     model.DeliveryDecision
	Persisted    bool
	Broadcast    bool
}

// NewNotificationPush is the structured form pushed under new_event.
type NewNotificationPush struct {
	NotificationID string                 `json:"notificationId"`
	Type           model.NotificationType `json:"type"`
	Message        string                 `json:"message"`
}

type ListNotificationsInput struct {
	UserID string
	Query  paginator.PaginateQuery
}

type ListNotificationsOutput struct {
	Notifications []model.Notification
	Paginator     paginator.Paginator
}

// UpdatePreferencesInput carries one decision per notification type.
type UpdatePreferencesInput struct {
	UserID      string
	Preferences map[model.NotificationType]model.DeliveryDecision
}
