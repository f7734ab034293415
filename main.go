package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/tessera/internal/config"
	"github.com/olivier-w/tessera/internal/logging"
	"github.com/olivier-w/tessera/internal/snapshot"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "snapshot" {
		return runSnapshot(args[1:])
	}
	return runIntro(args)
}

func runIntro(args []string) error {
	opts, err := config.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Print(config.Usage(""))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, config.Usage(""))
	}

	closeLog, err := setupLogging(opts.LogPath, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()
	logging.L().Info("starting", "seed", opts.Seed, "easing", opts.Easing, "interactive", opts.Interactive)

	pg, err := newPage(opts, nil)
	if err != nil {
		return err
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Interactive {
		progOpts = append(progOpts, tea.WithMouseAllMotion())
	}
	final, err := tea.NewProgram(pg, progOpts...).Run()
	if pm, ok := final.(page); ok {
		pm.intro.Teardown()
	}
	return err
}

func runSnapshot(args []string) error {
	opts, err := config.ParseSnapshot(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Print(config.Usage("snapshot"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, config.Usage("snapshot"))
	}

	closeLog, err := setupLogging(opts.LogPath, opts.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := snapshot.Export(ctx, snapshot.Config{
		Width:    opts.Width,
		Height:   opts.Height,
		Frames:   opts.Frames,
		FPS:      opts.FPS,
		BaseSize: opts.BaseSize,
		Grid:     opts.GridParams(),
		Scene:    opts.SceneOptions(),
		Schedule: opts.Schedule(),
		Dir:      opts.Out,
	})
	if res.Frames > 0 {
		fmt.Printf("wrote %d frames (%d cells, seed %d) to %s\n", res.Frames, res.Cells, opts.Seed, opts.Out)
	}
	return err
}

// setupLogging sends logs to path when one is given. The terminal belongs
// to the animation, so there is no stderr fallback.
func setupLogging(path string, debug bool) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logging.Set(logging.New(f, debug))
	return func() {
		logging.Set(nil)
		f.Close()
	}, nil
}
