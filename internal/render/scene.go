package render

import (
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/olivier-w/tessera/internal/grid"
	"github.com/olivier-w/tessera/internal/logging"
	"github.com/olivier-w/tessera/internal/timeline"
)

// Spot is an ambient glow region anchored at a fraction of the viewport.
type Spot struct {
	X, Y   float64       // 0..1 of width and height
	Radius float64       // fraction of the viewport's shorter side
	Period time.Duration // one pulse
	Accent bool
}

// DefaultSpots are three slow pulsing lights placed off center.
func DefaultSpots() []Spot {
	return []Spot{
		{X: 0.18, Y: 0.28, Radius: 0.55, Period: 5200 * time.Millisecond},
		{X: 0.82, Y: 0.22, Radius: 0.45, Period: 6700 * time.Millisecond, Accent: true},
		{X: 0.55, Y: 0.88, Radius: 0.60, Period: 8100 * time.Millisecond},
	}
}

// Options configures a Scene.
type Options struct {
	// Duration is how long one cell takes to reveal once its delay passes.
	Duration time.Duration
	Easing   Easing
	// RevealAt is the offset on the intro clock where the ripple starts.
	RevealAt time.Duration
	FPS      int
	Palette  Palette
	Spots    []Spot
}

// DefaultOptions matches the default timeline schedule.
func DefaultOptions() Options {
	return Options{
		Duration: 700 * time.Millisecond,
		Easing:   EaseOutCubic,
		RevealAt: 900 * time.Millisecond,
		FPS:      30,
		Palette:  DefaultPalette(),
		Spots:    DefaultSpots(),
	}
}

// Frame is what a tick knows about the world.
type Frame struct {
	Elapsed     time.Duration // since the intro started
	Phase       timeline.Phase
	Interactive bool // pointer glow enabled
}

// Scene is the per-frame renderer. The grid is read at tick time, so a
// resize that swaps it in takes effect on the next frame.
type Scene struct {
	opts    Options
	grid    grid.Grid
	Pointer Ref
	follow  follower

	frames  int
	skipped int
}

// NewScene returns a scene with an empty grid.
func NewScene(opts Options) *Scene {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Easing == nil {
		opts.Easing = EaseOutCubic
	}
	return &Scene{opts: opts, follow: newFollower(opts.FPS)}
}

// SetGrid replaces the cell collection.
func (s *Scene) SetGrid(g grid.Grid) { s.grid = g }

// Grid returns the current cell collection.
func (s *Scene) Grid() *grid.Grid { return &s.grid }

// Options returns the scene configuration.
func (s *Scene) Options() Options { return s.opts }

// RevealEnd is the intro-clock offset by which every cell of the current
// grid has fully revealed.
func (s *Scene) RevealEnd() time.Duration {
	return s.opts.RevealAt + s.grid.MaxDelay() + s.opts.Duration
}

// Stats reports painted and skipped frame counts.
func (s *Scene) Stats() (frames, skipped int) { return s.frames, s.skipped }

// Update advances every cell's progress for f without painting.
func (s *Scene) Update(f Frame) {
	Step(&s.grid, f.Elapsed-s.opts.RevealAt, s.opts.Duration, s.opts.Easing)
}

// Tick updates progress and paints one frame onto surf. When surf is not
// ready the tick is skipped and Tick returns false; the caller simply tries
// again next frame.
func (s *Scene) Tick(surf *Surface, f Frame) bool {
	if !surf.Ready() {
		s.skipped++
		logging.L().Debug("frame skipped: surface not ready", "elapsed", f.Elapsed)
		return false
	}
	s.Update(f)
	if err := s.paint(surf, f); err != nil {
		s.skipped++
		logging.L().Debug("frame paint failed", "err", err)
		return false
	}
	s.frames++
	return true
}

func (s *Scene) paint(surf *Surface, f Frame) error {
	p := s.opts.Palette
	if err := surf.background(p.Top, p.Bottom); err != nil {
		return err
	}
	if err := s.paintSpots(surf, f); err != nil {
		return err
	}
	if err := s.paintSeed(surf, f); err != nil {
		return err
	}
	if err := s.paintCells(surf, f); err != nil {
		return err
	}
	if err := s.paintLogo(surf, f); err != nil {
		return err
	}
	return s.paintPointer(surf, f)
}

func (s *Scene) paintSpots(surf *Surface, f Frame) error {
	w, h := s.grid.Width, s.grid.Height
	short := math.Min(w, h)
	dim := 1.0
	if f.Phase == timeline.Loading {
		dim = 0.4
	}
	secs := f.Elapsed.Seconds()
	for i, sp := range s.opts.Spots {
		pulse := 0.5
		if sp.Period > 0 {
			pulse = 0.5 + 0.5*math.Sin(2*math.Pi*secs/sp.Period.Seconds()+float64(i))
		}
		c := s.opts.Palette.Glow
		if sp.Accent {
			c = s.opts.Palette.Accent
		}
		r := short * sp.Radius * (0.85 + 0.15*pulse)
		if err := surf.glow(sp.X*w, sp.Y*h, r, c, dim*(0.10+0.08*pulse)); err != nil {
			return err
		}
	}
	return nil
}

// paintSeed draws the light the ripple grows out of. It swells through the
// early phases and fades while the cells take over.
func (s *Scene) paintSeed(surf *Surface, f Frame) error {
	var strength float64
	switch f.Phase {
	case timeline.Loading:
		return nil
	case timeline.Seed, timeline.Expanding:
		strength = 1
	case timeline.Tessellating:
		strength = 0.6
	case timeline.Revealing:
		strength = 0.3
	default:
		return nil
	}
	short := math.Min(s.grid.Width, s.grid.Height)
	grow := clamp01(f.Elapsed.Seconds() / math.Max(s.opts.RevealAt.Seconds(), 0.001))
	r := short * (0.05 + 0.3*grow)
	return surf.glow(s.grid.Width/2, s.grid.Height/2, r, s.opts.Palette.Glow, 0.55*strength)
}

// haloThreshold is the glow strength above which a cell carries a halo.
const haloThreshold = 0.7

// halo returns the radius and alpha of the light behind c. Only strong
// cells past the midpoint of their reveal have one.
func halo(c grid.Cell, base float64) (radius, alpha float64) {
	if c.Glow <= haloThreshold || c.Progress <= 0.5 {
		return 0, 0
	}
	ramp := (c.Progress - 0.5) * 2
	return base * 0.6 * c.Glow * (0.6 + 0.4*ramp), 0.28 * c.Glow * ramp
}

// edgeColor is the outline color of a cell class.
func (s *Scene) edgeColor(c grid.Cell) (gg.RGBA, float64) {
	switch c.Color {
	case grid.Accent:
		return s.opts.Palette.Accent.Lerp(gg.White, 0.25), 0.5
	case grid.Blend:
		return gg.White, 0.3
	default:
		return s.opts.Palette.Primary.Lerp(gg.White, 0.25), 0.4
	}
}

func (s *Scene) paintCells(surf *Surface, f Frame) error {
	settled := f.Phase == timeline.Complete
	secs := f.Elapsed.Seconds()

	// Halos go under every cell so they read as light behind the tiles.
	for _, c := range s.grid.Cells {
		r, a := halo(c, s.grid.BaseSize)
		if a <= 0 {
			continue
		}
		glowCol := s.opts.Palette.Glow
		if c.Color == grid.Accent {
			glowCol = s.opts.Palette.Accent
		}
		if err := surf.glow(c.Center.X, c.Center.Y, r, glowCol, a); err != nil {
			return err
		}
	}

	lineWidth := s.grid.BaseSize / 60
	for _, c := range s.grid.Cells {
		if c.Progress <= 0 {
			continue
		}
		col := s.opts.Palette.Class(c.Color)
		// Fresh cells flash toward white and cool into their color.
		col = col.Lerp(gg.White, (1-c.Progress)*0.5)
		alpha := 0.85 * c.Progress
		if settled {
			alpha *= 0.9 + 0.1*math.Sin(secs*1.3+c.Distance*0.015)
		}
		edge, edgeAlpha := s.edgeColor(c)
		k := (0.3 + 0.7*c.Progress) * 0.94
		if err := surf.triangle(s.grid.Vertices(c), c.Center, k,
			withAlpha(col, alpha), withAlpha(edge, edgeAlpha*c.Progress), lineWidth); err != nil {
			return err
		}
	}
	return nil
}

// paintLogo draws the pulsing triangle mark at the center while the ripple
// gathers. It fades out as the tessellation takes over.
func (s *Scene) paintLogo(surf *Surface, f Frame) error {
	var strength float64
	switch f.Phase {
	case timeline.Seed, timeline.Expanding:
		strength = 1
	case timeline.Tessellating:
		strength = 0.5
	default:
		return nil
	}
	short := math.Min(s.grid.Width, s.grid.Height)
	pulse := 0.5 + 0.5*math.Sin(2*math.Pi*f.Elapsed.Seconds()/1.2)
	side := short * 0.14 * (0.94 + 0.06*pulse)
	p := s.opts.Palette
	cx, cy := s.grid.Width/2, s.grid.Height/2
	if err := surf.glow(cx, cy, side, p.Glow, 0.35*strength*(0.7+0.3*pulse)); err != nil {
		return err
	}
	return surf.logo(cx, cy, side, p.Primary, p.Accent, 0.95*strength)
}

func (s *Scene) paintPointer(surf *Surface, f Frame) error {
	if !f.Interactive {
		return nil
	}
	tx, ty, ok := s.Pointer.Load()
	if !ok {
		return nil
	}
	x, y := s.follow.step(tx, ty)
	r := math.Max(s.grid.BaseSize*2.5, math.Min(s.grid.Width, s.grid.Height)*0.18)
	return surf.glow(x, y, r, s.opts.Palette.Glow, 0.35)
}
