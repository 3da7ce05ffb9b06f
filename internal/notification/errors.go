package notification

import "errors"

var (
	ErrUnknownChannel       = errors.New("unknown change channel")
	ErrInvalidPayload       = errors.New("invalid change payload")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidType          = errors.New("invalid notification type")
	ErrNoPreferences        = errors.New("no preferences to update")
	ErrNotificationNotFound = errors.New("notification not found")
)
