// Package snapshot renders the intro offline into numbered PNG frames,
// driving the timeline with a virtual clock instead of the terminal.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olivier-w/tessera/internal/grid"
	"github.com/olivier-w/tessera/internal/logging"
	"github.com/olivier-w/tessera/internal/render"
	"github.com/olivier-w/tessera/internal/timeline"
)

// Config describes one export.
type Config struct {
	Width, Height int
	// Frames to write. 0 writes enough to reach the end of the schedule.
	Frames   int
	FPS      int
	BaseSize float64 // 0 picks one from the width
	Grid     grid.Params
	Scene    render.Options
	Schedule timeline.Schedule
	Dir      string
}

// Result summarizes a finished export.
type Result struct {
	Frames    int
	Cells     int
	Completed bool // the intro reached its terminal phase
}

var epoch = time.Unix(0, 0)

// Export writes frame-NNNN.png files into cfg.Dir. It stops at the first
// error or when ctx is cancelled; frames written so far are kept.
func Export(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return res, fmt.Errorf("snapshot size %dx%d: must be positive", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.Schedule == nil {
		cfg.Schedule = timeline.DefaultSchedule()
	}
	cfg.Scene.FPS = cfg.FPS

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	clock := timeline.NewManualClock(epoch)
	ctrl, err := timeline.New(cfg.Schedule, clock)
	if err != nil {
		return res, err
	}
	phase := ctrl.Phase()
	ctrl.OnPhase = func(p timeline.Phase) { phase = p }

	w, h := float64(cfg.Width), float64(cfg.Height)
	base := cfg.BaseSize
	if base <= 0 {
		base = grid.BaseSizeFor(w)
	}
	scene := render.NewScene(cfg.Scene)
	g := grid.Generate(w, h, base, cfg.Grid)
	scene.SetGrid(g)
	res.Cells = g.Len()

	surf := render.NewSurface(cfg.Width, cfg.Height, 1)
	defer surf.Close()

	interval := time.Second / time.Duration(cfg.FPS)
	frames := cfg.Frames
	if frames == 0 {
		frames = int((cfg.Schedule.End()+interval-1)/interval) + 1
	}

	ctrl.Start(func() { res.Completed = true })
	defer ctrl.Stop()

	log := logging.L().With("dir", cfg.Dir)
	log.Info("snapshot started", "frames", frames, "cells", res.Cells, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i > 0 {
			clock.Advance(interval)
		}
		f := render.Frame{Elapsed: ctrl.Elapsed(), Phase: phase}
		if !scene.Tick(surf, f) {
			return res, fmt.Errorf("frame %d: paint failed", i)
		}
		if err := writeFrame(surf, filepath.Join(cfg.Dir, FrameName(i))); err != nil {
			return res, fmt.Errorf("frame %d: %w", i, err)
		}
		res.Frames++
	}
	log.Info("snapshot finished", "frames", res.Frames, "completed", res.Completed)
	return res, nil
}

// FrameName is the file name of frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame-%04d.png", i)
}

func writeFrame(surf *render.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := surf.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
