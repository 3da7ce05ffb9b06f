package websocket

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Client protocol event names.
const (
	EventIdentify      = "identify"
	EventNewEvent      = "new_event"
	EventNotifications = "notifications"
	EventError         = "error"
)

// State is the lifecycle stage of a connection.
type State int

const (
	StateConnected State = iota
	StateIdentified
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateIdentified:
		return "identified"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Transport is the subset of *websocket.Conn the registry drives.
type Transport interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// --- UseCase Inputs ---

// ConnectInput represents a freshly upgraded connection.
type ConnectInput struct {
	Transport  Transport
	Handler    ClientHandler
	RemoteAddr string
}

// --- UseCase Outputs ---

type HubStats struct {
	ActiveConnections     int
	IdentifiedConnections int
	TotalUniqueUsers      int
}

// --- Wire format ---

// Envelope is every frame exchanged with clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ClientMessage is a decoded client frame; Data is kept raw until the event is known.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEnvelope renders one server frame.
func EncodeEnvelope(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: payload})
}

// DecodeClientMessage parses one client frame.
func DecodeClientMessage(frame []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return ClientMessage{}, ErrInvalidMessage
	}
	if msg.Event == "" {
		return ClientMessage{}, ErrInvalidMessage
	}
	return msg, nil
}

// IdentifyPayload is the object form of identify data.
type IdentifyPayload struct {
	UserID string `json:"userId"`
}

// ParseIdentify accepts either "U1" or {"userId":"U1"}.
func ParseIdentify(data json.RawMessage) (string, error) {
	var userID string
	if err := json.Unmarshal(data, &userID); err != nil {
		var p IdentifyPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return "", ErrInvalidMessage
		}
		userID = p.UserID
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrInvalidUserID
	}
	return userID, nil
}

// ErrorPayload is sent under EventError when a client frame is rejected.
type ErrorPayload struct {
	Message string `json:"message"`
}
