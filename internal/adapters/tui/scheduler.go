package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tomato/internal/ports"
)

// schedMsg fires the scheduled callback with the given id.
type schedMsg struct {
	id int
}

// teaScheduler implements ports.Scheduler on top of bubbletea messages, so
// engine callbacks run inside Model.Update like key presses do. Scheduling
// queues a tea.Tick; the model collects the queue with drain after each
// update. A message whose handle was stopped in the meantime is dropped.
type teaScheduler struct {
	now     func() time.Time
	seq     int
	timers  map[int]*teaTimer
	pending []tea.Cmd
}

type teaTimer struct {
	s        *teaScheduler
	id       int
	interval time.Duration
	repeat   bool
	fn       func()
}

func (t *teaTimer) Stop() {
	delete(t.s.timers, t.id)
}

var _ ports.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{
		now:    time.Now,
		timers: make(map[int]*teaTimer),
	}
}

func (s *teaScheduler) Now() time.Time {
	return s.now()
}

func (s *teaScheduler) Every(interval time.Duration, fn func()) ports.Handle {
	return s.add(interval, true, fn)
}

func (s *teaScheduler) After(delay time.Duration, fn func()) ports.Handle {
	return s.add(delay, false, fn)
}

func (s *teaScheduler) add(d time.Duration, repeat bool, fn func()) *teaTimer {
	if d <= 0 {
		d = time.Millisecond
	}
	s.seq++
	t := &teaTimer{s: s, id: s.seq, interval: d, repeat: repeat, fn: fn}
	s.timers[t.id] = t
	s.arm(t)
	return t
}

func (s *teaScheduler) arm(t *teaTimer) {
	id := t.id
	s.pending = append(s.pending, tea.Tick(t.interval, func(time.Time) tea.Msg {
		return schedMsg{id: id}
	}))
}

// fire runs the callback for id if its handle is still live. Periodic
// timers are re-armed before the callback so the callback may stop them.
func (s *teaScheduler) fire(id int) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	if t.repeat {
		s.arm(t)
	} else {
		delete(s.timers, id)
	}
	t.fn()
}

// drain returns the ticks queued since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// live returns the ids of live timers with the given interval, oldest first.
func (s *teaScheduler) live(interval time.Duration) []int {
	var ids []int
	for id := 1; id <= s.seq; id++ {
		if t, ok := s.timers[id]; ok && t.interval == interval {
			ids = append(ids, id)
		}
	}
	return ids
}
