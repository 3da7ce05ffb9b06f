package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpgradeLimiter(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	l := newUpgradeLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.NotContains(t, l.hits, "10.0.0.2")
}

func TestUpgradeLimiterDisabled(t *testing.T) {
	l := newUpgradeLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	var nilLimiter *upgradeLimiter
	assert.True(t, nilLimiter.Allow("x"))
}
