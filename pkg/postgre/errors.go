package postgre

import (
	"errors"
)

var (
	ErrInvalidUUID      = errors.New("invalid UUID format")
	ErrInvalidChannel   = errors.New("invalid listen channel name")
	ErrConnectionClosed = errors.New("listen connection closed")
)
