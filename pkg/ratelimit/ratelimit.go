package ratelimit

import (
	"time"
)

// Cooldown is a fixed, unconditional pause taken after every upstream call.
// It limits a single process only; separate processes do not coordinate.
type Cooldown struct {
	wait  time.Duration
	sleep func(time.Duration)
}

func NewCooldown(wait time.Duration) *Cooldown {
	return &Cooldown{wait: wait, sleep: time.Sleep}
}

// NewTestCooldown records pauses through sleep instead of blocking.
func NewTestCooldown(wait time.Duration, sleep func(time.Duration)) *Cooldown {
	return &Cooldown{wait: wait, sleep: sleep}
}

func (c *Cooldown) Wait() {
	if c == nil || c.wait <= 0 {
		return
	}
	c.sleep(c.wait)
}

func (c *Cooldown) Interval() time.Duration {
	if c == nil {
		return 0
	}
	return c.wait
}
