package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/tessera/internal/config"
	"github.com/olivier-w/tessera/internal/intro"
	"github.com/olivier-w/tessera/internal/timeline"
)

func testPage(t *testing.T) page {
	t.Helper()
	opts, err := config.Parse([]string{"-seed", "3"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := newPage(opts, func() time.Time { return start })
	if err != nil {
		t.Fatalf("newPage: %v", err)
	}
	if m.Init() == nil {
		t.Fatal("expected init command")
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPageQuitTearsDownIntro(t *testing.T) {
	m := testPage(t)
	model, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !model.(page).intro.TornDown() {
		t.Fatal("expected intro torn down on quit")
	}
}

func TestPageShowsHeroOnComplete(t *testing.T) {
	m := testPage(t)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(page)
	if strings.Contains(m.View(), "tessera") {
		t.Fatal("expected no hero during the intro")
	}

	model, _ = m.Update(intro.PhaseMsg{Phase: timeline.Revealing})
	m = model.(page)
	if m.last != timeline.Revealing {
		t.Fatalf("expected last phase revealing, got %v", m.last)
	}

	model, _ = m.Update(intro.CompleteMsg{})
	m = model.(page)
	if m.phase != phaseHero {
		t.Fatalf("expected hero phase, got %v", m.phase)
	}
	if !strings.Contains(m.View(), "tessera") {
		t.Fatal("expected hero title in view")
	}
}

func TestPageReplayMountsFreshIntro(t *testing.T) {
	m := testPage(t)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = model.(page)

	// Replay is only offered once the hero is up.
	model, cmd := m.Update(key("r"))
	if cmd != nil || model.(page).intro.TornDown() {
		t.Fatal("expected replay ignored during the intro")
	}

	model, _ = m.Update(intro.CompleteMsg{})
	m = model.(page)
	old := m.intro

	model, cmd = m.Update(key("r"))
	m = model.(page)
	if cmd == nil {
		t.Fatal("expected init and resize commands")
	}
	if !old.TornDown() {
		t.Fatal("expected previous intro torn down")
	}
	if m.intro.TornDown() || m.phase != phaseIntro {
		t.Fatal("expected a live intro after replay")
	}
	if m.intro.Phase() != timeline.Loading {
		t.Fatalf("expected replay to start from loading, got %v", m.intro.Phase())
	}
}
