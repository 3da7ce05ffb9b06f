package pgnotify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"evento-notification/internal/notification"
	"evento-notification/pkg/log"
	pkgPostgre "evento-notification/pkg/postgre"
)

const (
	DefaultQueueSize       = 1024
	DefaultStandbyInterval = 5 * time.Second
)

// Listener owns the single LISTEN connection and feeds decoded change
// events to the dispatcher through a bounded queue.
type Listener interface {
	Start(ctx context.Context) error
	// Errors delivers at most one error: the fatal loss of the subscription.
	Errors() <-chan error
	Shutdown(ctx context.Context) error
	// Leader reports whether this instance holds the LISTEN subscriptions.
	Leader() bool
}

type Config struct {
	Channels  []string
	QueueSize int
	// LeaderLockKey elects one listening instance through a session advisory
	// lock on the LISTEN connection. Zero makes every instance listen.
	LeaderLockKey int64
	// StandbyInterval is how often a standby retries the lock.
	StandbyInterval time.Duration
}

type listener struct {
	l        log.Logger
	conn     pkgPostgre.NotifyConn
	uc       notification.UseCase
	channels []string
	queue    *eventQueue

	lockKey         int64
	standbyInterval time.Duration
	leader          atomic.Bool

	errCh        chan error
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.Mutex
	started      bool
	shutdownOnce sync.Once
}

// New validates the channel set and builds a listener over conn.
// The listener takes ownership of conn and closes it on Shutdown.
func New(l log.Logger, conn pkgPostgre.NotifyConn, uc notification.UseCase, cfg Config) (Listener, error) {
	if len(cfg.Channels) == 0 {
		return nil, ErrNoChannels
	}

	seen := make(map[string]struct{}, len(cfg.Channels))
	channels := make([]string, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		if err := pkgPostgre.ValidateChannel(ch); err != nil {
			return nil, err
		}
		if !isKnownChannel(ch) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, ch)
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		channels = append(channels, ch)
	}

	if cfg.StandbyInterval <= 0 {
		cfg.StandbyInterval = DefaultStandbyInterval
	}

	return &listener{
		l:               l,
		conn:            conn,
		uc:              uc,
		channels:        channels,
		queue:           newEventQueue(cfg.QueueSize),
		lockKey:         cfg.LeaderLockKey,
		standbyInterval: cfg.StandbyInterval,
		errCh:           make(chan error, 1),
	}, nil
}

func isKnownChannel(ch string) bool {
	for _, k := range notification.Kinds {
		if string(k) == ch {
			return true
		}
	}
	return false
}
