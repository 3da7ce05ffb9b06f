package http

import (
	"sync"
	"time"
)

// upgradeLimiter caps new WebSocket upgrades per client over a sliding window.
// A zero max disables it.
type upgradeLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
	sweep  time.Time
}

func newUpgradeLimiter(max int, window time.Duration) *upgradeLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &upgradeLimiter{
		max:    max,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records an attempt for key and reports whether it is within the limit.
func (l *upgradeLimiter) Allow(key string) bool {
	if l == nil || l.max <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	if now.Sub(l.sweep) >= l.window {
		l.sweepLocked(windowStart)
		l.sweep = now
	}

	recent := keepAfter(l.hits[key], windowStart)
	if len(recent) >= l.max {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

func (l *upgradeLimiter) sweepLocked(windowStart time.Time) {
	for key, ts := range l.hits {
		recent := keepAfter(ts, windowStart)
		if len(recent) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = recent
	}
}

// keepAfter drops timestamps at or before start. ts is ascending.
func keepAfter(ts []time.Time, start time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(start) {
		i++
	}
	return ts[i:]
}
