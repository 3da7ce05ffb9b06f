package http

import (
	"net/http"

	"evento-notification/internal/websocket"
	"evento-notification/pkg/errors"
	"evento-notification/pkg/response"
)

var errTooManyUpgrades = errors.NewHTTPError(http.StatusTooManyRequests, "Too many connection attempts", http.StatusTooManyRequests)

var errMap = response.ErrorMapping{
	websocket.ErrMaxConnectionsReached: errors.NewHTTPError(http.StatusServiceUnavailable, "Maximum connections reached", http.StatusServiceUnavailable),
	websocket.ErrRegistryClosed:        errors.NewHTTPError(http.StatusServiceUnavailable, "Server is shutting down", http.StatusServiceUnavailable),
}
