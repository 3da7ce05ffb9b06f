package websocket

import "errors"

var (
	// ErrInvalidMessage is returned when a client frame cannot be decoded
	ErrInvalidMessage = errors.New("invalid message format")

	// ErrUnknownEvent is returned for client events the server does not handle
	ErrUnknownEvent = errors.New("unknown client event")

	// ErrInvalidUserID is returned when identify carries no user id
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrConnectionClosed is returned when trying to write to a closed connection
	ErrConnectionClosed = errors.New("connection closed")

	// ErrConnectionNotFound is returned when the connection id is not registered
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrSendBufferFull is returned when a connection cannot accept more messages
	ErrSendBufferFull = errors.New("connection send buffer full")

	// ErrMaxConnectionsReached is returned when max connections limit is reached
	ErrMaxConnectionsReached = errors.New("maximum connections reached")

	// ErrRegistryClosed is returned after Shutdown
	ErrRegistryClosed = errors.New("connection registry closed")
)
