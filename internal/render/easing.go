package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/tessera/internal/grid"
)

// Easing maps normalized time in [0,1] to animation progress. Curves may
// overshoot; Progress clamps the result.
type Easing func(t float64) float64

// EaseOutCubic decelerates into the end without overshoot.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseOutElastic overshoots and rings before settling at 1.
func EaseOutElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	const c4 = 2 * math.Pi / 3
	return math.Pow(2, -10*t)*math.Sin((10*t-0.75)*c4) + 1
}

const springSamples = 256

// SpringEasing samples a damped harmonica spring pulled from 0 to 1 into a
// lookup table. The spring runs for span seconds across the unit interval.
func SpringEasing(frequency, damping, span float64) Easing {
	s := harmonica.NewSpring(span/springSamples, frequency, damping)
	lut := make([]float64, springSamples+1)
	var pos, vel float64
	for i := 1; i <= springSamples; i++ {
		pos, vel = s.Update(pos, vel, 1)
		lut[i] = pos
	}
	lut[springSamples] = 1

	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		f := t * springSamples
		i := int(f)
		frac := f - float64(i)
		return lut[i] + (lut[i+1]-lut[i])*frac
	}
}

// ParseEasing resolves a configured curve name.
func ParseEasing(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cubic":
		return EaseOutCubic, nil
	case "elastic":
		return EaseOutElastic, nil
	case "spring":
		return SpringEasing(12, 0.45, 1.2), nil
	default:
		return nil, fmt.Errorf("unknown easing %q (want cubic, elastic or spring)", name)
	}
}

// Progress is the reveal progress of a cell delay into its animation at
// elapsed: exactly 0 until the delay has passed, exactly 1 once duration
// more has passed, eased and clamped to [0,1] in between.
func Progress(elapsed, delay, duration time.Duration, ease Easing) float64 {
	t := elapsed - delay
	if t <= 0 {
		return 0
	}
	if duration <= 0 || t >= duration {
		return 1
	}
	if ease == nil {
		ease = EaseOutCubic
	}
	return clamp01(ease(float64(t) / float64(duration)))
}

// Step writes every cell's Progress for the given reveal clock. It reads
// only the cells' static delays, so the same inputs give the same result.
func Step(g *grid.Grid, elapsed, duration time.Duration, ease Easing) {
	for i := range g.Cells {
		g.Cells[i].Progress = Progress(elapsed, g.Cells[i].Delay, duration, ease)
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
