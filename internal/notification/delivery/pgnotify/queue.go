package pgnotify

import (
	"time"

	"evento-notification/internal/notification"
)

type queuedEvent struct {
	channel  string
	event    notification.ChangeEvent
	received time.Time
}

// eventQueue is a bounded FIFO between the receive loop and the dispatcher.
// When full, push evicts the oldest entry. There is exactly one producer.
type eventQueue struct {
	ch chan queuedEvent
}

func newEventQueue(size int) *eventQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &eventQueue{ch: make(chan queuedEvent, size)}
}

// push enqueues ev and reports the entry evicted to make room, if any.
func (q *eventQueue) push(ev queuedEvent) (evicted queuedEvent, dropped bool) {
	for {
		select {
		case q.ch <- ev:
			return evicted, dropped
		default:
		}

		select {
		case old := <-q.ch:
			evicted, dropped = old, true
		default:
			// The consumer freed a slot in between.
		}
	}
}

func (q *eventQueue) len() int {
	return len(q.ch)
}

func (q *eventQueue) cap() int {
	return cap(q.ch)
}
