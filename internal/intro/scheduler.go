package intro

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerMsg is a timeline timer coming back through Update.
type timerMsg struct {
	owner *teaScheduler
	id    uint64
}

// teaScheduler runs timeline timers as tea.Tick commands so that every
// callback executes inside Update, on the program's goroutine. Cancelling
// a timer forgets its callback; the tick still arrives but does nothing.
type teaScheduler struct {
	now     func() time.Time
	next    uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

func newTeaScheduler(now func() time.Time) *teaScheduler {
	if now == nil {
		now = time.Now
	}
	return &teaScheduler{now: now, pending: make(map[uint64]func())}
}

func (s *teaScheduler) Now() time.Time { return s.now() }

func (s *teaScheduler) After(d time.Duration, fn func()) func() {
	id := s.next
	s.next++
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{owner: s, id: id}
	}))
	return func() { delete(s.pending, id) }
}

// fire runs the callback for id if it is still armed.
func (s *teaScheduler) fire(id uint64) {
	fn, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	fn()
}

// drain hands over the ticks armed since the last drain.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmd := tea.Batch(s.cmds...)
	s.cmds = nil
	return cmd
}

// armed reports how many timers are still pending.
func (s *teaScheduler) armed() int { return len(s.pending) }
