package websocket

import (
	"context"
)

// UseCase is the connection registry. Connections join the room of the
// user they identify as; broadcasts reach every connection in a room.
type UseCase interface {
	// Lifecycle
	Shutdown(ctx context.Context) error

	// Connection Management
	// Accepting reports whether Connect would currently admit a connection.
	Accepting(ctx context.Context) error
	Connect(ctx context.Context, input ConnectInput) (string, error)
	Identify(ctx context.Context, connID, userID string) error
	Disconnect(ctx context.Context, connID string)

	// Delivery
	Broadcast(ctx context.Context, userID, event string, payload any) error
	EmitToConnection(ctx context.Context, connID, event string, payload any) error
	// SendToUser queues an already encoded envelope to every connection in
	// the user's room and returns how many accepted it.
	SendToUser(ctx context.Context, userID string, message []byte) int

	// Stats
	GetStats(ctx context.Context) HubStats
}

// ClientHandler receives decoded client frames for a connection.
type ClientHandler interface {
	HandleClientMessage(ctx context.Context, connID string, msg ClientMessage)
}
