package usecase

import (
	"evento-notification/internal/notification"
	"evento-notification/internal/notification/repository"
	"evento-notification/pkg/log"
)

type implUseCase struct {
	l           log.Logger
	repo        repository.Repository
	broadcaster notification.Broadcaster
	enforcement notification.Enforcement
}

var _ notification.UseCase = &implUseCase{}

// New creates the dispatcher. An empty enforcement means notification.EnforcementNone.
func New(l log.Logger, repo repository.Repository, broadcaster notification.Broadcaster, enforcement notification.Enforcement) notification.UseCase {
	if enforcement == "" {
		enforcement = notification.EnforcementNone
	}
	return &implUseCase{
		l:           l,
		repo:        repo,
		broadcaster: broadcaster,
		enforcement: enforcement,
	}
}
