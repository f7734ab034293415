// Package config turns command-line arguments into run options.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/olivier-w/tessera/internal/grid"
	"github.com/olivier-w/tessera/internal/render"
	"github.com/olivier-w/tessera/internal/timeline"
)

// ErrUsage marks errors caused by bad arguments.
var ErrUsage = errors.New("usage")

// MinBaseSize is the smallest triangle base -base accepts.
const MinBaseSize = 8

// randomSeed picks a seed when -seed is not given.
var randomSeed = rand.Uint64

// Options is everything shared by the interactive intro and snapshots.
type Options struct {
	Seed        uint64
	BaseSize    float64 // 0 picks one from the viewport width
	Easing      string
	Duration    time.Duration // per-cell reveal
	Spread      time.Duration // ripple spread across the viewport
	Jitter      time.Duration
	FPS         int
	Interactive bool
	LogPath     string
	Debug       bool
}

// Snapshot adds the frame export settings.
type Snapshot struct {
	Options
	Width  int
	Height int
	Frames int
	Out    string
}

// Parse reads the flags of the interactive command.
func Parse(args []string) (Options, error) {
	fs := flag.NewFlagSet("tessera", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var o Options
	seed := bindCommon(fs, &o)
	if err := parse(fs, args); err != nil {
		return Options{}, err
	}
	if err := o.finish(*seed); err != nil {
		return Options{}, err
	}
	return o, nil
}

// ParseSnapshot reads the flags of the snapshot command.
func ParseSnapshot(args []string) (Snapshot, error) {
	fs := flag.NewFlagSet("tessera snapshot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var s Snapshot
	seed := bindSnapshot(fs, &s)
	if err := parse(fs, args); err != nil {
		return Snapshot{}, err
	}
	if err := s.finish(*seed); err != nil {
		return Snapshot{}, err
	}
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return Snapshot{}, usagef("-width and -height must be positive (got %dx%d)", s.Width, s.Height)
	case s.Frames < 0:
		return Snapshot{}, usagef("-frames must not be negative (got %d)", s.Frames)
	case strings.TrimSpace(s.Out) == "":
		return Snapshot{}, usagef("-out is required")
	}
	return s, nil
}

func bindSnapshot(fs *flag.FlagSet, s *Snapshot) *string {
	seed := bindCommon(fs, &s.Options)
	fs.IntVar(&s.Width, "width", 1024, "Viewport width in pixels.")
	fs.IntVar(&s.Height, "height", 768, "Viewport height in pixels.")
	fs.IntVar(&s.Frames, "frames", 0, "Frames to write. 0 covers the whole intro.")
	fs.StringVar(&s.Out, "out", "frames", "Output directory.")
	return seed
}

func bindCommon(fs *flag.FlagSet, o *Options) *string {
	d := grid.DefaultParams()
	r := render.DefaultOptions()
	seed := fs.String("seed", "", "Color and jitter seed. Random when unset.")
	fs.Float64Var(&o.BaseSize, "base", 0, "Triangle base in pixels, at least 8. 0 picks one from the width.")
	fs.StringVar(&o.Easing, "easing", "cubic", "Cell easing: cubic|elastic|spring")
	fs.DurationVar(&o.Duration, "duration", r.Duration, "Per-cell reveal duration.")
	fs.DurationVar(&o.Spread, "spread", d.Spread, "Ripple spread from center to corner.")
	fs.DurationVar(&o.Jitter, "jitter", d.Jitter, "Random delay added per cell.")
	fs.IntVar(&o.FPS, "fps", r.FPS, "Frames per second.")
	fs.BoolVar(&o.Interactive, "interactive", true, "Pointer glow after the intro.")
	fs.StringVar(&o.LogPath, "log", "", "Write logs to this file.")
	fs.BoolVar(&o.Debug, "debug", false, "Log at debug level.")
	return seed
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%v", err)
	}
	if fs.NArg() != 0 {
		return usagef("unexpected arguments: %q", strings.Join(fs.Args(), " "))
	}
	return nil
}

func (o *Options) finish(seed string) error {
	if seed = strings.TrimSpace(seed); seed == "" {
		o.Seed = randomSeed()
	} else {
		n, err := strconv.ParseUint(seed, 0, 64)
		if err != nil {
			return usagef("invalid -seed %q", seed)
		}
		o.Seed = n
	}
	switch {
	case o.BaseSize < 0:
		return usagef("-base must not be negative (got %v)", o.BaseSize)
	case o.BaseSize > 0 && o.BaseSize < MinBaseSize:
		return usagef("-base must be 0 or at least %d (got %v)", MinBaseSize, o.BaseSize)
	case o.Duration <= 0:
		return usagef("-duration must be positive (got %v)", o.Duration)
	case o.Spread < 0 || o.Jitter < 0:
		return usagef("-spread and -jitter must not be negative")
	case o.FPS < 1 || o.FPS > 240:
		return usagef("-fps must be in 1..240 (got %d)", o.FPS)
	}
	if _, err := render.ParseEasing(o.Easing); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// GridParams are the generation parameters for these options.
func (o Options) GridParams() grid.Params {
	p := grid.DefaultParams()
	p.Spread = o.Spread
	p.Jitter = o.Jitter
	p.Seed = o.Seed
	return p
}

// SceneOptions are the scene settings for these options.
func (o Options) SceneOptions() render.Options {
	s := render.DefaultOptions()
	s.Duration = o.Duration
	s.FPS = o.FPS
	if e, err := render.ParseEasing(o.Easing); err == nil {
		s.Easing = e
	}
	return s
}

// Schedule is the default timeline stretched so the terminal phase never
// lands before the last cell has finished revealing.
func (o Options) Schedule() timeline.Schedule {
	reveal := render.DefaultOptions().RevealAt + o.Spread + o.Jitter + o.Duration
	return timeline.DefaultSchedule().WithEnd(reveal)
}

// Usage returns the flag summary for the named command.
func Usage(cmd string) string {
	fs := flag.NewFlagSet("tessera", flag.ContinueOnError)
	name := "tessera"
	if cmd == "snapshot" {
		bindSnapshot(fs, &Snapshot{})
		name += " snapshot"
	} else {
		bindCommon(fs, &Options{})
	}
	var b bytes.Buffer
	fs.SetOutput(&b)
	fmt.Fprintf(&b, "Usage: %s [flags]\n\n", name)
	fs.PrintDefaults()
	return b.String()
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
