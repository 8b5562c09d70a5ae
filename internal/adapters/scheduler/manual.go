// Package scheduler provides implementations of ports.Scheduler: a real
// single-goroutine event loop and a manually advanced clock for tests.
package scheduler

import (
	"time"

	"github.com/xvierd/tomato/internal/ports"
)

// Manual is a deterministic scheduler. Time only moves when Advance is
// called, and due callbacks run synchronously inside Advance in due order.
type Manual struct {
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	id       uint64
	due      time.Time
	interval time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() { t.stopped = true }

// Ensure Manual implements ports.Scheduler.
var _ ports.Scheduler = (*Manual)(nil)

// NewManual creates a manual scheduler starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time {
	return m.now
}

// Every schedules fn every interval. Non-positive intervals are raised
// to one millisecond.
func (m *Manual) Every(interval time.Duration, fn func()) ports.Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return m.add(interval, interval, fn)
}

// After schedules fn once.
func (m *Manual) After(delay time.Duration, fn func()) ports.Handle {
	if delay < 0 {
		delay = 0
	}
	return m.add(delay, 0, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) *manualTimer {
	m.seq++
	t := &manualTimer{
		id:       m.seq,
		due:      m.now.Add(delay),
		interval: interval,
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves time forward by d, firing every callback that falls due.
// Callbacks may schedule or stop other callbacks.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.stopped = true
		}
		next.fn()
	}
	m.now = target
	m.compact()
}

// Pending returns the number of live scheduled callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}
