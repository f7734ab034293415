package intro

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/tessera/internal/grid"
	"github.com/olivier-w/tessera/internal/logging"
	"github.com/olivier-w/tessera/internal/render"
	"github.com/olivier-w/tessera/internal/timeline"
	"github.com/olivier-w/tessera/internal/util"
)

// Config is what the host page hands the intro.
type Config struct {
	// Interactive enables the pointer glow once the intro completes.
	Interactive bool
	// OnComplete, if set, is called once alongside CompleteMsg.
	OnComplete func()

	FPS      int
	BaseSize float64 // 0 picks one from the viewport width
	Grid     grid.Params
	Scene    render.Options
	Schedule timeline.Schedule

	// CellWidth and CellHeight are the virtual pixel size of one terminal
	// cell. The grid is generated in virtual pixels.
	CellWidth  float64
	CellHeight float64
	// Supersample is raster pixels per terminal column before downscaling.
	Supersample int
	// Reserve is how many terminal rows below the canvas are left for text.
	Reserve int

	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// DefaultConfig returns the intro defaults.
func DefaultConfig() Config {
	return Config{
		Interactive: true,
		FPS:         30,
		Grid:        grid.DefaultParams(),
		Scene:       render.DefaultOptions(),
		Schedule:    timeline.DefaultSchedule(),
		CellWidth:   8,
		CellHeight:  16,
		Supersample: 2,
		Reserve:     2,
	}
}

// engine is the mutable state shared by every copy of Model.
type engine struct {
	sched   *teaScheduler
	ctrl    *timeline.Controller
	scene   *render.Scene
	surface *render.Surface
	term    *render.Terminal

	phase     timeline.Phase
	completed bool
	announced bool
	phases    []timeline.Phase // entered since the last Update drained them
	loop      int
	started   bool
	torn      bool
}

// Model is the bubbletea model for the intro animation.
type Model struct {
	cfg      Config
	e        *engine
	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int
	canvas   string
}

// New builds an intro. Nothing runs until Init.
func New(cfg Config) (Model, error) {
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		cfg.CellWidth, cfg.CellHeight = 8, 16
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}
	if cfg.Reserve < 0 {
		cfg.Reserve = 0
	}
	if cfg.Schedule == nil {
		cfg.Schedule = timeline.DefaultSchedule()
	}
	cfg.Scene.FPS = cfg.FPS

	sched := newTeaScheduler(cfg.Now)
	ctrl, err := timeline.New(cfg.Schedule, sched)
	if err != nil {
		return Model{}, fmt.Errorf("intro timeline: %w", err)
	}

	e := &engine{
		sched: sched,
		ctrl:  ctrl,
		scene: render.NewScene(cfg.Scene),
		term:  render.NewTerminal(),
		phase: ctrl.Phase(),
	}
	ctrl.OnPhase = func(p timeline.Phase) {
		e.phase = p
		e.phases = append(e.phases, p)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithScaledGradient("#0EA5E9", "#A855F7"),
		progress.WithoutPercentage(),
	)

	return Model{cfg: cfg, e: e, spinner: s, progress: p}, nil
}

func (m Model) Init() tea.Cmd {
	e := m.e
	if e.started || e.torn {
		return nil
	}
	e.started = true
	onComplete := m.cfg.OnComplete
	e.ctrl.Start(func() {
		e.completed = true
		if onComplete != nil {
			onComplete()
		}
	})
	return tea.Batch(e.sched.drain(), m.drainEvents(), frameCmd(e, e.loop, m.cfg.FPS), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	e := m.e
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if m.Interactive() {
			x, y := m.cellToViewport(msg.X, msg.Y)
			e.scene.Pointer.Set(x, y)
		}
		return m, nil

	case timerMsg:
		if msg.owner != e.sched || e.torn {
			return m, nil
		}
		e.sched.fire(msg.id)
		return m, m.drainEvents()

	case frameMsg:
		if msg.owner != e || msg.loop != e.loop || e.torn {
			return m, nil
		}
		m.renderFrame()
		return m, frameCmd(e, e.loop, m.cfg.FPS)

	case spinner.TickMsg:
		if e.completed || e.torn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// drainEvents turns phases entered during the last timer into messages for
// the host, followed by CompleteMsg the first time the intro completes.
func (m Model) drainEvents() tea.Cmd {
	e := m.e
	var cmds []tea.Cmd
	for _, p := range e.phases {
		cmds = append(cmds, emit(PhaseMsg{Phase: p}))
	}
	e.phases = e.phases[:0]
	if e.completed && !e.announced {
		e.announced = true
		cmds = append(cmds, emit(CompleteMsg{}))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Sequence(cmds...)
}

// resize regenerates the grid for the new viewport and resizes the drawing
// surface. The timeline keeps running untouched.
func (m *Model) resize(cols, rows int) {
	e := m.e
	if e.torn {
		return
	}
	m.width, m.height = cols, rows
	canvasRows := rows - m.cfg.Reserve
	if cols <= 0 || canvasRows <= 0 {
		e.scene.SetGrid(grid.Grid{})
		m.canvas = ""
		return
	}

	w := float64(cols) * m.cfg.CellWidth
	h := float64(canvasRows) * m.cfg.CellHeight
	base := m.cfg.BaseSize
	if base <= 0 {
		base = grid.BaseSizeFor(w)
	}
	g := grid.Generate(w, h, base, m.cfg.Grid)
	e.scene.SetGrid(g)

	ss := m.cfg.Supersample
	pw, ph := cols*ss, canvasRows*2*ss
	scale := float64(pw) / w
	if e.surface == nil {
		e.surface = render.NewSurface(pw, ph, scale)
	} else if err := e.surface.Resize(pw, ph, scale); err != nil {
		logging.L().Warn("surface resize failed", "err", err)
		if cerr := e.surface.Close(); cerr != nil {
			logging.L().Warn("surface close failed", "err", cerr)
		}
		e.surface = nil
	}

	barWidth := cols - 30
	m.progress.Width = max(10, min(barWidth, 40))

	logging.L().Debug("grid regenerated",
		"cols", cols, "rows", canvasRows, "cells", g.Len(), "base", base, "phase", e.phase)
}

func (m *Model) renderFrame() {
	e := m.e
	f := render.Frame{
		Elapsed:     e.ctrl.Elapsed(),
		Phase:       e.phase,
		Interactive: m.Interactive(),
	}
	if !e.scene.Tick(e.surface, f) {
		return
	}
	m.canvas = e.term.Render(e.surface.Image(), m.width, m.height-m.cfg.Reserve)
}

func (m Model) cellToViewport(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * m.cfg.CellWidth, (float64(row) + 0.5) * m.cfg.CellHeight
}

// Interactive reports whether pointer input currently drives the glow.
func (m Model) Interactive() bool {
	return m.cfg.Interactive && m.e.completed && !m.e.torn
}

// Phase is the current intro phase.
func (m Model) Phase() timeline.Phase { return m.e.phase }

// Completed reports whether the terminal phase was reached.
func (m Model) Completed() bool { return m.e.completed }

// TornDown reports whether Teardown has run.
func (m Model) TornDown() bool { return m.e.torn }

// Grid exposes the current cell collection.
func (m Model) Grid() *grid.Grid { return m.e.scene.Grid() }

// Teardown stops the frame loop, cancels the timeline's timers, and stops
// listening to the pointer. It is safe to call more than once.
func (m Model) Teardown() {
	e := m.e
	if e == nil || e.torn {
		return
	}
	e.torn = true
	e.loop++
	e.ctrl.Stop()
	e.scene.Pointer.Clear()
	if err := e.surface.Close(); err != nil {
		logging.L().Warn("surface close failed", "err", err)
	}
	e.surface = nil
	frames, skipped := e.scene.Stats()
	logging.L().Debug("intro torn down", "phase", e.phase, "frames", frames, "skipped", skipped)
}

// Canvas is the last rendered frame.
func (m Model) Canvas() string { return m.canvas }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.canvas)
	if m.cfg.Reserve == 0 {
		return b.String()
	}
	if m.canvas != "" {
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	e := m.e
	if e.completed {
		return ""
	}
	ratio := 0.0
	if end := e.ctrl.Schedule().End(); end > 0 {
		ratio = float64(e.ctrl.Elapsed()) / float64(end)
	}
	ratio = max(0, min(ratio, 1))

	lead := "  "
	if e.phase == timeline.Loading {
		lead = m.spinner.View() + " "
	}
	clock := util.FormatDuration(e.ctrl.Elapsed()) + " / " + util.FormatDuration(e.ctrl.Schedule().End())
	return " " + lead + phaseStyle.Render(e.phase.String()) + "  " +
		m.progress.ViewAs(ratio) + "  " + statusStyle.Render(fmt.Sprintf("%3.0f%%  %s", ratio*100, clock))
}
