package http

import (
	"net/http"

	"evento-notification/internal/notification"
	"evento-notification/pkg/errors"
	"evento-notification/pkg/response"
)

var (
	errWrongBody  = errors.NewHTTPError(110001, "Wrong body", http.StatusBadRequest)
	errWrongType  = errors.NewHTTPError(110002, "Unknown notification type", http.StatusBadRequest)
	errWrongQuery = errors.NewHTTPError(110005, "Wrong query", http.StatusBadRequest)
)

const (
	errCodeInvalidPreference = 110006

	msgPreferenceNotObject  = "must be an object with inApp, email and push"
	msgPreferenceNotBoolean = "inApp, email and push must be booleans"
)

var errMap = response.ErrorMapping{
	notification.ErrInvalidUserID:        errors.NewHTTPError(110003, "User id is required", http.StatusBadRequest),
	notification.ErrInvalidType:          errWrongType,
	notification.ErrNoPreferences:        errors.NewHTTPError(110004, "No preferences to update", http.StatusBadRequest),
	notification.ErrNotificationNotFound: errors.NewNotFoundHTTPError("Notification not found"),
}
