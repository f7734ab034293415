package timeline

import "time"

// Phase is a named stage of the intro. Phases only move forward.
type Phase uint8

const (
	Loading Phase = iota
	Seed
	Expanding
	Tessellating
	Revealing
	Complete
)

var phaseNames = [...]string{
	Loading:      "loading",
	Seed:         "seed",
	Expanding:    "expanding",
	Tessellating: "tessellating",
	Revealing:    "revealing",
	Complete:     "complete",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Step is one entry of a schedule: Phase is entered Offset after start.
type Step struct {
	Phase  Phase
	Offset time.Duration
}

// Schedule is an ordered list of steps with strictly increasing offsets.
// The first step is the phase the controller starts in.
type Schedule []Step

// DefaultSchedule is the intro timeline. The reveal window leaves room for
// the full ripple spread plus one cell animation.
func DefaultSchedule() Schedule {
	return Schedule{
		{Loading, 0},
		{Seed, 400 * time.Millisecond},
		{Expanding, 900 * time.Millisecond},
		{Tessellating, 1500 * time.Millisecond},
		{Revealing, 2600 * time.Millisecond},
		{Complete, 3400 * time.Millisecond},
	}
}

// Terminal returns the last phase of the schedule.
func (s Schedule) Terminal() Phase {
	if len(s) == 0 {
		return Loading
	}
	return s[len(s)-1].Phase
}

// End returns the offset of the terminal phase.
func (s Schedule) End() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Offset
}

// PhaseAt returns the phase the schedule is in at elapsed.
func (s Schedule) PhaseAt(elapsed time.Duration) Phase {
	p := Loading
	for _, st := range s {
		if st.Offset > elapsed {
			break
		}
		p = st.Phase
	}
	return p
}

// WithEnd returns a copy of s whose terminal step is at least end. Earlier
// steps keep their offsets.
func (s Schedule) WithEnd(end time.Duration) Schedule {
	out := append(Schedule(nil), s...)
	if len(out) < 2 {
		return out
	}
	last := &out[len(out)-1]
	if end > last.Offset {
		last.Offset = end
	}
	return out
}
