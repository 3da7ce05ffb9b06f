package postgre

import (
	"context"
	"fmt"
	"time"

	"evento-notification/config"
	pkgPostgre "evento-notification/pkg/postgre"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
)

// defaultConnectTimeout is the maximum time to wait for the initial connection
const defaultConnectTimeout = 5 * time.Second

// DSN builds a libpq-style connection string from the config.
func DSN(cfg config.PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
}

// Connect opens the query pool used by the notification and preference stores.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// ConnectListener opens the dedicated connection that holds LISTEN subscriptions.
// It is intentionally separate from the pool: a pooled connection may be recycled
// and silently drop its subscriptions.
func ConnectListener(ctx context.Context, cfg config.PostgresConfig) (pkgPostgre.NotifyConn, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	conn, err := pkgPostgre.DialNotifyConn(connectCtx, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL listen connection: %w", err)
	}
	return conn, nil
}

// Disconnect closes the query pool.
func Disconnect(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close PostgreSQL connection: %w", err)
	}
	return nil
}
