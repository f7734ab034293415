package config

import (
	"errors"
	"flag"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	prev := randomSeed
	randomSeed = func() uint64 { return 42 }
	defer func() { randomSeed = prev }()

	o, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Seed != 42 {
		t.Fatalf("expected random seed 42, got %d", o.Seed)
	}
	if o.FPS != 30 || !o.Interactive || o.Easing != "cubic" {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.Duration != 700*time.Millisecond || o.Spread != 1800*time.Millisecond {
		t.Fatalf("unexpected timing defaults: %+v", o)
	}
	if got := o.Schedule().End(); got != 3400*time.Millisecond {
		t.Fatalf("expected default schedule end 3.4s, got %v", got)
	}
}

func TestParseFlags(t *testing.T) {
	o, err := Parse([]string{
		"-seed", "7", "-base", "64", "-easing", "spring", "-duration", "1s",
		"-spread", "3s", "-jitter", "200ms", "-fps", "60", "-interactive=false",
		"-log", "out.log", "-debug",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.Seed != 7 || o.BaseSize != 64 || o.FPS != 60 || o.Interactive || !o.Debug || o.LogPath != "out.log" {
		t.Fatalf("unexpected options: %+v", o)
	}
	p := o.GridParams()
	if p.Spread != 3*time.Second || p.Jitter != 200*time.Millisecond || p.Seed != 7 {
		t.Fatalf("unexpected grid params: %+v", p)
	}
	s := o.SceneOptions()
	if s.Duration != time.Second || s.FPS != 60 || s.Easing == nil {
		t.Fatalf("unexpected scene options: %+v", s)
	}
	want := 900*time.Millisecond + 3*time.Second + 200*time.Millisecond + time.Second
	if got := o.Schedule().End(); got != want {
		t.Fatalf("expected schedule end %v, got %v", want, got)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"-fps", "0"},
		{"-fps", "1000"},
		{"-duration", "0s"},
		{"-spread", "-1s"},
		{"-base", "-3"},
		{"-base", "0.0001"},
		{"-base", "7.9"},
		{"-easing", "bounce"},
		{"-seed", "twelve"},
		{"-nope"},
		{"extra"},
	}
	for _, args := range cases {
		if _, err := Parse(args); !errors.Is(err, ErrUsage) {
			t.Fatalf("Parse(%q): expected ErrUsage, got %v", args, err)
		}
	}
}

func TestParseAcceptsMinimumBase(t *testing.T) {
	o, err := Parse([]string{"-seed", "1", "-base", "8"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if o.BaseSize != MinBaseSize {
		t.Fatalf("expected base %d, got %v", MinBaseSize, o.BaseSize)
	}
}

func TestParseHelp(t *testing.T) {
	if _, err := Parse([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseSnapshot(t *testing.T) {
	s, err := ParseSnapshot([]string{"-seed", "0x10", "-width", "640", "-height", "480", "-frames", "12", "-out", "shots"})
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if s.Seed != 16 || s.Width != 640 || s.Height != 480 || s.Frames != 12 || s.Out != "shots" {
		t.Fatalf("unexpected snapshot options: %+v", s)
	}

	for _, args := range [][]string{
		{"-width", "0"},
		{"-frames", "-1"},
		{"-out", " "},
	} {
		if _, err := ParseSnapshot(args); !errors.Is(err, ErrUsage) {
			t.Fatalf("ParseSnapshot(%q): expected ErrUsage, got %v", args, err)
		}
	}
}

func TestUsage(t *testing.T) {
	u := Usage("snapshot")
	if !strings.HasPrefix(u, "Usage: tessera snapshot [flags]") {
		t.Fatalf("unexpected usage header: %q", u)
	}
	for _, name := range []string{"-seed", "-frames", "-out"} {
		if !strings.Contains(u, name) {
			t.Fatalf("expected %s in snapshot usage", name)
		}
	}
	if strings.Contains(Usage(""), "-frames") {
		t.Fatal("expected no snapshot flags in the default usage")
	}
}
