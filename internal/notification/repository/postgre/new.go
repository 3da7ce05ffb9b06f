package postgres

import (
	"time"

	"evento-notification/internal/notification/repository"
	pkgLog "evento-notification/pkg/log"

	"github.com/jmoiron/sqlx"
)

type implRepository struct {
	l     pkgLog.Logger
	db    *sqlx.DB
	clock func() time.Time
}

var _ repository.Repository = &implRepository{}

func New(l pkgLog.Logger, db *sqlx.DB) *implRepository {
	return &implRepository{
		l:     l,
		db:    db,
		clock: time.Now,
	}
}
