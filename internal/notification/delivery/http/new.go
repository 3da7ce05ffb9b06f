package http

import (
	"evento-notification/internal/notification"
	"evento-notification/pkg/log"
)

type Handler struct {
	l  log.Logger
	uc notification.UseCase
}

func New(l log.Logger, uc notification.UseCase) *Handler {
	return &Handler{
		l:  l,
		uc: uc,
	}
}
