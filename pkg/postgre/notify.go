package postgre

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
)

// Notification is one asynchronous NOTIFY delivered on a LISTEN connection.
type Notification struct {
	PID     uint32
	Channel string
	Payload string
}

// NotifyConn is a single dedicated connection holding LISTEN subscriptions.
// It is not safe for concurrent use: one goroutine owns it.
type NotifyConn interface {
	Listen(ctx context.Context, channel string) error
	WaitForNotification(ctx context.Context) (Notification, error)
	// TryAdvisoryLock takes a session-level advisory lock without waiting.
	// The lock is released when the connection closes.
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)
	Close(ctx context.Context) error
}

var channelNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidateChannel checks a channel name against the identifiers the triggers use.
func ValidateChannel(channel string) error {
	if !channelNamePattern.MatchString(channel) {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
	}
	return nil
}

type pgxNotifyConn struct {
	conn *pgx.Conn
}

// DialNotifyConn opens a dedicated pgx connection for LISTEN.
func DialNotifyConn(ctx context.Context, dsn string) (NotifyConn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgxNotifyConn{conn: conn}, nil
}

func (c *pgxNotifyConn) Listen(ctx context.Context, channel string) error {
	if err := ValidateChannel(channel); err != nil {
		return err
	}
	if _, err := c.conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	return nil
}

func (c *pgxNotifyConn) WaitForNotification(ctx context.Context) (Notification, error) {
	n, err := c.conn.WaitForNotification(ctx)
	if err != nil {
		if c.conn.IsClosed() && !errors.Is(err, context.Canceled) {
			return Notification{}, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}
		return Notification{}, err
	}
	return Notification{PID: n.PID, Channel: n.Channel, Payload: n.Payload}, nil
}

func (c *pgxNotifyConn) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	if err := c.conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok); err != nil {
		return false, fmt.Errorf("advisory lock %d: %w", key, err)
	}
	return ok, nil
}

func (c *pgxNotifyConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
