package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/tessera/internal/config"
	"github.com/olivier-w/tessera/internal/intro"
	"github.com/olivier-w/tessera/internal/logging"
	"github.com/olivier-w/tessera/internal/timeline"
)

type pagePhase uint8

const (
	phaseIntro pagePhase = iota
	phaseHero
)

// heroRows is the space under the canvas kept for the hero block.
const heroRows = 3

var (
	heroTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#E0F2FE"})

	heroTaglineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#C4B5FD"})

	heroHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"})
)

// page hosts the intro and shows the hero once it completes.
type page struct {
	opts   config.Options
	intro  intro.Model
	phase  pagePhase
	last   timeline.Phase
	width  int
	height int
	clock  func() time.Time // nil uses time.Now
}

func newPage(opts config.Options, clock func() time.Time) (page, error) {
	m := page{opts: opts, clock: clock}
	im, err := intro.New(m.introConfig())
	if err != nil {
		return page{}, err
	}
	m.intro = im
	return m, nil
}

func (m page) introConfig() intro.Config {
	cfg := intro.DefaultConfig()
	cfg.Interactive = m.opts.Interactive
	cfg.FPS = m.opts.FPS
	cfg.BaseSize = m.opts.BaseSize
	cfg.Grid = m.opts.GridParams()
	cfg.Scene = m.opts.SceneOptions()
	cfg.Schedule = m.opts.Schedule()
	cfg.Reserve = heroRows
	cfg.Now = m.clock
	return cfg
}

func (m page) Init() tea.Cmd {
	return m.intro.Init()
}

func (m page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if isQuit(msg) {
			m.intro.Teardown()
			return m, tea.Quit
		}
		if msg.String() == "r" && m.phase == phaseHero {
			return m.replay()
		}
		return m, nil

	case intro.PhaseMsg:
		m.last = msg.Phase
		logging.L().Info("intro phase", "phase", msg.Phase)
		return m, nil

	case intro.CompleteMsg:
		m.phase = phaseHero
		logging.L().Info("intro complete")
		return m, nil
	}

	model, cmd := m.intro.Update(msg)
	if im, ok := model.(intro.Model); ok {
		m.intro = im
	}
	return m, cmd
}

// replay tears the finished intro down and mounts a fresh one at the
// current size.
func (m page) replay() (tea.Model, tea.Cmd) {
	next, err := intro.New(m.introConfig())
	if err != nil {
		logging.L().Error("replay failed", "err", err)
		return m, nil
	}
	m.intro.Teardown()
	m.intro = next
	m.phase = phaseIntro
	m.last = timeline.Loading

	cmds := []tea.Cmd{m.intro.Init()}
	if m.width > 0 || m.height > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg {
			return tea.WindowSizeMsg{Width: w, Height: h}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m page) View() string {
	if m.phase != phaseHero {
		return m.intro.View()
	}
	var b strings.Builder
	if c := m.intro.Canvas(); c != "" {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	b.WriteString(m.renderHero())
	return b.String()
}

func (m page) renderHero() string {
	help := "r replay  q quit"
	if m.opts.Interactive {
		help = "move the mouse  " + help
	}
	block := lipgloss.JoinVertical(lipgloss.Center,
		heroTitleStyle.Render("tessera"),
		heroTaglineStyle.Render("a field of triangles, one ripple at a time"),
		heroHelpStyle.Render(help),
	)
	if m.width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}
