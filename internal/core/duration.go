package core

import (
	"fmt"
	"time"
)

const DefaultDurationTick = 300 * time.Millisecond

// CallDurationClock keeps the elapsed call time current and pushes the
// formatted value when the overlay can show it.
type CallDurationClock struct {
	sched   Scheduler
	tick    time.Duration
	visible func() bool
	push    func(string)

	start     time.Time
	elapsed   time.Duration
	formatted string
	ticker    Timer
}

func NewCallDurationClock(sched Scheduler, tick time.Duration, visible func() bool, push func(string)) *CallDurationClock {
	if tick <= 0 {
		tick = DefaultDurationTick
	}
	return &CallDurationClock{
		sched:     sched,
		tick:      tick,
		visible:   visible,
		push:      push,
		formatted: FormatDuration(0),
	}
}

func (c *CallDurationClock) Start() {
	c.Stop()
	c.start = c.sched.Now()
	c.ticker = c.sched.Every(c.tick, c.onTick)
}

func (c *CallDurationClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *CallDurationClock) Running() bool          { return c.ticker != nil }
func (c *CallDurationClock) Elapsed() time.Duration { return c.elapsed }
func (c *CallDurationClock) Formatted() string      { return c.formatted }

func (c *CallDurationClock) onTick() {
	if c.ticker == nil {
		return
	}
	c.elapsed = c.sched.Now().Sub(c.start)
	c.formatted = FormatDuration(c.elapsed)
	if c.push != nil && (c.visible == nil || c.visible()) {
		c.push(c.formatted)
	}
}

// FormatDuration renders d as hh:mm:ss without trimming leading zeros.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}
