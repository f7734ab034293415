package timeline

import (
	"sort"
	"time"
)

// Scheduler supplies time and one-shot timers to a Controller. Callbacks
// must be delivered on the goroutine that drives the controller.
type Scheduler interface {
	Now() time.Time
	// After arranges for fn to run d from now and returns a function that
	// cancels it. Cancelling a fired or cancelled timer does nothing.
	After(d time.Duration, fn func()) (cancel func())
}

// ManualClock is a virtual clock. Time moves only through Advance, which
// runs every due callback in deadline order on the caller's goroutine.
type ManualClock struct {
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at   time.Time
	seq  int
	fn   func()
	dead bool
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the virtual time.
func (c *ManualClock) Now() time.Time { return c.now }

// After arms fn to run once the clock has advanced by d.
func (c *ManualClock) After(d time.Duration, fn func()) func() {
	t := &manualTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.seq++
	c.timers = append(c.timers, t)
	return func() { t.dead = true }
}

// Pending reports how many timers are armed and not cancelled.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.dead {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing timers as their deadlines
// pass. Timers armed by a callback fire in the same call if they fall due.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		t := c.next(target)
		if t == nil {
			break
		}
		if t.at.After(c.now) {
			c.now = t.at
		}
		t.dead = true
		t.fn()
	}
	c.now = target
	c.compact()
}

func (c *ManualClock) next(limit time.Time) *manualTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.seq < b.seq
	})
	for _, t := range c.timers {
		if t.dead {
			continue
		}
		if t.at.After(limit) {
			return nil
		}
		return t
	}
	return nil
}

func (c *ManualClock) compact() {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.dead {
			live = append(live, t)
		}
	}
	c.timers = live
}
