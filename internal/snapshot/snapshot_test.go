package snapshot

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/tessera/internal/grid"
	"github.com/olivier-w/tessera/internal/render"
	"github.com/olivier-w/tessera/internal/timeline"
)

func testConfig(dir string) Config {
	p := grid.DefaultParams()
	p.Seed = 9
	return Config{
		Width:    96,
		Height:   64,
		FPS:      10,
		BaseSize: 24,
		Grid:     p,
		Scene:    render.DefaultOptions(),
		Schedule: timeline.DefaultSchedule(),
		Dir:      dir,
	}
}

func TestExportWritesFrames(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Frames = 3
	res, err := Export(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Frames != 3 || res.Cells == 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Completed {
		t.Fatal("expected three frames to stop short of completion")
	}
	for i := range 3 {
		f, err := os.Open(filepath.Join(dir, FrameName(i)))
		if err != nil {
			t.Fatalf("open frame %d: %v", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode frame %d: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
			t.Fatalf("frame %d: expected 96x64, got %dx%d", i, b.Dx(), b.Dy())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, FrameName(3))); !os.IsNotExist(err) {
		t.Fatalf("expected no fourth frame, got %v", err)
	}
}

func TestExportDefaultCoversIntro(t *testing.T) {
	dir := t.TempDir()
	res, err := Export(context.Background(), testConfig(dir))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// 3.4s at 10 fps plus the frame at zero.
	if res.Frames != 35 {
		t.Fatalf("expected 35 frames, got %d", res.Frames)
	}
	if !res.Completed {
		t.Fatal("expected the intro to complete")
	}
}

func TestExportStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	res, err := Export(ctx, testConfig(dir))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Frames != 0 {
		t.Fatalf("expected no frames, got %d", res.Frames)
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Width = 0
	if _, err := Export(context.Background(), cfg); err == nil {
		t.Fatal("expected error for empty size")
	}

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = testConfig(blocker)
	if _, err := Export(context.Background(), cfg); err == nil {
		t.Fatal("expected error when the output dir is a file")
	}

	cfg = testConfig(filepath.Join(dir, "bad"))
	cfg.Schedule = timeline.Schedule{{Phase: timeline.Seed, Offset: 5}}
	if _, err := Export(context.Background(), cfg); !errors.Is(err, timeline.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestFrameName(t *testing.T) {
	if got := FrameName(7); got != "frame-0007.png" {
		t.Fatalf("unexpected name %q", got)
	}
}
