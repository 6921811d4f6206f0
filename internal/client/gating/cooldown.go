package gating

import (
	"sync"
	"time"
)

// DefaultResendCooldown spaces out verification email resends.
const DefaultResendCooldown = 60 * time.Second

// Cooldown rate-limits an action to once per period.
type Cooldown struct {
	mu     sync.Mutex
	period time.Duration
	now    func() time.Time
	last   time.Time
}

func NewCooldown(period time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{period: period, now: now}
}

// Remaining is how long until the action is allowed again, zero if it is.
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

// Try starts a new period and reports true when the action is allowed.
// Otherwise it returns the time left and leaves the period untouched.
func (c *Cooldown) Try() (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if left := c.remainingLocked(); left > 0 {
		return false, left
	}
	c.last = c.now()
	return true, 0
}

func (c *Cooldown) remainingLocked() time.Duration {
	if c.last.IsZero() || c.period <= 0 {
		return 0
	}
	left := c.period - c.now().Sub(c.last)
	if left < 0 {
		return 0
	}
	return left
}
