package pgnotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evento-notification/internal/metrics"
	"evento-notification/internal/notification"
)

const (
	dropReasonMalformed = "malformed"
	dropReasonOverflow  = "overflow"
)

// Start subscribes to every configured channel and launches the receive and
// dispatch loops. Subscription errors are returned; later losses go to Errors.
// With a leader lock configured, an instance that cannot take the lock starts
// as a standby and subscribes once the lock frees up.
func (li *listener) Start(ctx context.Context) error {
	li.mu.Lock()
	defer li.mu.Unlock()
	if li.started {
		return ErrAlreadyStarted
	}

	leader := true
	if li.lockKey != 0 {
		ok, err := li.conn.TryAdvisoryLock(ctx, li.lockKey)
		if err != nil {
			li.l.Errorf(ctx, "internal.notification.delivery.pgnotify.Start.TryAdvisoryLock: %v", err)
			return fmt.Errorf("leader lock: %w", err)
		}
		leader = ok
	}

	if leader {
		if err := li.subscribe(ctx); err != nil {
			return err
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	li.cancel = cancel
	li.started = true

	li.wg.Add(2)
	go li.receive(runCtx)
	go li.dispatch(runCtx)

	if leader {
		li.l.Infof(ctx, "Change listener started on channels: %v (queue=%d)", li.channels, li.queue.cap())
	} else {
		li.l.Infof(ctx, "Change listener standing by, lock %d is held by another instance", li.lockKey)
	}
	return nil
}

func (li *listener) subscribe(ctx context.Context) error {
	for _, ch := range li.channels {
		if err := li.conn.Listen(ctx, ch); err != nil {
			li.l.Errorf(ctx, "internal.notification.delivery.pgnotify.subscribe.Listen: channel=%s: %v", ch, err)
			return fmt.Errorf("listen %s: %w", ch, err)
		}
	}
	li.leader.Store(true)
	metrics.ListenerLeader.Set(1)
	return nil
}

// awaitLeadership retries the leader lock until it is taken or ctx ends.
func (li *listener) awaitLeadership(ctx context.Context) bool {
	ticker := time.NewTicker(li.standbyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}

		ok, err := li.conn.TryAdvisoryLock(ctx, li.lockKey)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			li.l.Errorf(ctx, "internal.notification.delivery.pgnotify.awaitLeadership.TryAdvisoryLock: %v", err)
			li.fail(fmt.Errorf("%w: %w", ErrListenerLost, err))
			return false
		}
		if !ok {
			continue
		}

		if err := li.subscribe(ctx); err != nil {
			if ctx.Err() != nil {
				return false
			}
			li.fail(fmt.Errorf("%w: %w", ErrListenerLost, err))
			return false
		}
		li.l.Infof(ctx, "Change listener took over leadership on channels: %v", li.channels)
		return true
	}
}

func (li *listener) Errors() <-chan error {
	return li.errCh
}

func (li *listener) Leader() bool {
	return li.leader.Load()
}

func (li *listener) receive(ctx context.Context) {
	defer li.wg.Done()

	if !li.leader.Load() && !li.awaitLeadership(ctx) {
		return
	}

	for {
		n, err := li.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			li.l.Errorf(ctx, "internal.notification.delivery.pgnotify.receive.WaitForNotification: %v", err)
			li.fail(fmt.Errorf("%w: %w", ErrListenerLost, err))
			return
		}

		metrics.ChangeEventsReceived.WithLabelValues(n.Channel).Inc()

		ev, err := notification.DecodeChangeEvent(n.Channel, []byte(n.Payload))
		if err != nil {
			metrics.ChangeEventsDropped.WithLabelValues(dropReasonMalformed).Inc()
			li.l.Warnf(ctx, "internal.notification.delivery.pgnotify.receive.DecodeChangeEvent: channel=%s: %v", n.Channel, err)
			continue
		}

		evicted, dropped := li.queue.push(queuedEvent{
			channel:  n.Channel,
			event:    ev,
			received: time.Now(),
		})
		if dropped {
			metrics.ChangeEventsDropped.WithLabelValues(dropReasonOverflow).Inc()
			li.l.Warnf(ctx, "Dispatch queue full, dropped oldest %s event for user %s (queued %s ago)",
				evicted.channel, evicted.event.UserID(), time.Since(evicted.received).Round(time.Millisecond))
		}
		metrics.DispatchQueueDepth.Set(float64(li.queue.len()))
	}
}

func (li *listener) dispatch(ctx context.Context) {
	defer li.wg.Done()

	// In-flight handling outlives shutdown of the loop.
	handleCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			if n := li.queue.len(); n > 0 {
				li.l.Warnf(handleCtx, "Change listener stopping, abandoning %d queued events", n)
			}
			return
		case item := <-li.queue.ch:
			metrics.DispatchQueueDepth.Set(float64(li.queue.len()))
			if _, err := li.uc.HandleChangeEvent(handleCtx, item.event); err != nil {
				li.l.Errorf(handleCtx, "internal.notification.delivery.pgnotify.dispatch.HandleChangeEvent: channel=%s: %v", item.channel, err)
			}
		}
	}
}

func (li *listener) fail(err error) {
	select {
	case li.errCh <- err:
	default:
	}
}

// Shutdown stops both loops and closes the LISTEN connection, which also
// releases the leader lock. It is safe to call when Start failed.
func (li *listener) Shutdown(ctx context.Context) error {
	var closeErr error
	li.shutdownOnce.Do(func() {
		li.mu.Lock()
		cancel := li.cancel
		li.mu.Unlock()
		if cancel != nil {
			cancel()
		}

		done := make(chan struct{})
		go func() {
			li.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			closeErr = ctx.Err()
		}

		if err := li.conn.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
			li.l.Errorf(ctx, "internal.notification.delivery.pgnotify.Shutdown.Close: %v", err)
			if closeErr == nil {
				closeErr = err
			}
		}
		if li.leader.Swap(false) {
			metrics.ListenerLeader.Set(0)
		}
		li.l.Infof(ctx, "Change listener stopped")
	})
	return closeErr
}
