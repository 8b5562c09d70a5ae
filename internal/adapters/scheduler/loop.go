package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xvierd/tomato/internal/ports"
)

// Loop is a real-time scheduler that runs every callback, and every
// function handed to Post, on the goroutine that called Run.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

// Ensure Loop implements ports.Scheduler.
var _ ports.Scheduler = (*Loop)(nil)

// NewLoop creates an event loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
}

type loopHandle struct {
	stopped atomic.Bool
	stop    chan struct{}
	once    sync.Once
}

func newLoopHandle() *loopHandle {
	return &loopHandle{stop: make(chan struct{})}
}

func (h *loopHandle) Stop() {
	h.stopped.Store(true)
	h.once.Do(func() { close(h.stop) })
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Every posts fn to the loop on each tick of a time.Ticker.
func (l *Loop) Every(interval time.Duration, fn func()) ports.Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	h := newLoopHandle()
	fire := l.guard(h, fn)
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.events <- fire:
				case <-h.stop:
					return
				case <-l.done:
					return
				}
			case <-h.stop:
				return
			case <-l.done:
				return
			}
		}
	}()
	return h
}

// After posts fn to the loop once the delay elapses.
func (l *Loop) After(delay time.Duration, fn func()) ports.Handle {
	h := newLoopHandle()
	fire := l.guard(h, func() {
		h.Stop()
		fn()
	})
	timer := time.NewTimer(delay)

	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			select {
			case l.events <- fire:
			case <-h.stop:
			case <-l.done:
			}
		case <-h.stop:
		case <-l.done:
		}
	}()
	return h
}

// guard drops callbacks whose handle was stopped after they were queued.
func (l *Loop) guard(h *loopHandle, fn func()) func() {
	return func() {
		if h.stopped.Load() {
			return
		}
		fn()
	}
}

// Post queues fn to run on the loop goroutine. It reports false once the
// loop has finished.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run processes events until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		select {
		case fn := <-l.events:
			fn()
		case <-ctx.Done():
			return nil
		case <-l.done:
			return nil
		}
	}
}

// Close stops the loop. Pending callbacks are discarded.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
