package middleware

import (
	"evento-notification/pkg/discord"
	"evento-notification/pkg/log"
)

type Middleware struct {
	l       log.Logger
	discord discord.IDiscord
}

// New builds the HTTP middleware set. discord may be nil.
func New(l log.Logger, d discord.IDiscord) Middleware {
	return Middleware{
		l:       l,
		discord: d,
	}
}
