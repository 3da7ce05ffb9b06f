package pgnotify

import "errors"

var (
	ErrListenerLost       = errors.New("change listener connection lost")
	ErrUnsupportedChannel = errors.New("unsupported change channel")
	ErrNoChannels         = errors.New("no change channels configured")
	ErrAlreadyStarted     = errors.New("change listener already started")
)
