package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/olivier-w/tessera/internal/logging"
)

// ErrInvalidSchedule is returned by New for schedules it cannot run.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Controller walks a Schedule forward on timers from a Scheduler and
// reports completion once. It is not safe for concurrent use; drive it from
// the same goroutine that delivers the scheduler's callbacks.
type Controller struct {
	schedule Schedule
	sched    Scheduler

	// OnPhase, when set, is called once for every phase entered after
	// Start, in schedule order.
	OnPhase func(Phase)

	start      time.Time
	index      int
	started    bool
	stopped    bool
	completed  bool
	cancels    []func()
	onComplete func()
}

// New validates schedule and returns a controller sitting in its first
// phase.
func New(schedule Schedule, sched Scheduler) (*Controller, error) {
	if err := validate(schedule); err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidSchedule)
	}
	return &Controller{
		schedule: append(Schedule(nil), schedule...),
		sched:    sched,
	}, nil
}

func validate(s Schedule) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidSchedule)
	}
	if s[0].Offset != 0 {
		return fmt.Errorf("%w: first step %s starts at %v, want 0", ErrInvalidSchedule, s[0].Phase, s[0].Offset)
	}
	for i := 1; i < len(s); i++ {
		if s[i].Offset <= s[i-1].Offset {
			return fmt.Errorf("%w: step %d (%s) at %v does not follow %v",
				ErrInvalidSchedule, i, s[i].Phase, s[i].Offset, s[i-1].Offset)
		}
		if s[i].Phase <= s[i-1].Phase {
			return fmt.Errorf("%w: phase %s after %s", ErrInvalidSchedule, s[i].Phase, s[i-1].Phase)
		}
	}
	return nil
}

// Start anchors the timeline at the scheduler's current time and arms one
// timer per step. onComplete may be nil. Calling Start again, or after
// Stop, does nothing.
func (c *Controller) Start(onComplete func()) {
	if c.started || c.stopped {
		return
	}
	c.started = true
	c.onComplete = onComplete
	c.start = c.sched.Now()
	logging.L().Debug("timeline started", "phase", c.Phase(), "steps", len(c.schedule))

	if len(c.schedule) == 1 {
		c.advanceTo(0)
		return
	}
	for i := 1; i < len(c.schedule); i++ {
		c.cancels = append(c.cancels, c.sched.After(c.schedule[i].Offset, func() {
			c.advanceTo(i)
		}))
	}
}

// advanceTo enters every phase up to and including step i. A late timer
// for a later step walks through the earlier ones first.
func (c *Controller) advanceTo(i int) {
	if c.stopped {
		return
	}
	for c.index < i {
		c.index++
		p := c.schedule[c.index].Phase
		logging.L().Debug("phase", "phase", p, "elapsed", c.Elapsed())
		if c.OnPhase != nil {
			c.OnPhase(p)
		}
		if c.stopped {
			return
		}
	}
	if c.index == len(c.schedule)-1 && !c.completed {
		c.completed = true
		c.release()
		logging.L().Info("intro complete", "elapsed", c.Elapsed())
		if c.onComplete != nil {
			c.onComplete()
		}
	}
}

// Stop cancels every pending timer. After Stop no phase change or
// completion is reported. Stop is idempotent.
func (c *Controller) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.release()
	if c.started && !c.completed {
		logging.L().Debug("timeline stopped", "phase", c.Phase())
	}
}

func (c *Controller) release() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

// Phase is the current phase.
func (c *Controller) Phase() Phase {
	return c.schedule[c.index].Phase
}

// Done reports whether the terminal phase has been reached.
func (c *Controller) Done() bool { return c.completed }

// Stopped reports whether Stop has been called.
func (c *Controller) Stopped() bool { return c.stopped }

// Elapsed is the time since Start, or zero before it.
func (c *Controller) Elapsed() time.Duration {
	if !c.started {
		return 0
	}
	return c.sched.Now().Sub(c.start)
}

// Schedule returns the controller's schedule.
func (c *Controller) Schedule() Schedule { return c.schedule }
