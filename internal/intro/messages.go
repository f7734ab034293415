package intro

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/tessera/internal/timeline"
)

// CompleteMsg is sent once when the intro reaches its terminal phase.
type CompleteMsg struct{}

// PhaseMsg reports a phase change to the host.
type PhaseMsg struct {
	Phase timeline.Phase
}

type frameMsg struct {
	owner *engine
	loop  int
}

func frameCmd(e *engine, loop int, fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return frameMsg{owner: e, loop: loop}
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
