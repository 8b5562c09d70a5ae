package services

import (
	"log"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// EngineConfig holds the timer engine's cadences.
type EngineConfig struct {
	TickInterval      time.Duration
	RenderInterval    time.Duration
	IntroStepInterval time.Duration

	// RevealDelay is how long focus must run before secondary actions are
	// revealed. Zero disables the reveal.
	RevealDelay time.Duration
}

// DefaultEngineConfig returns the standard cadences.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:      time.Second,
		RenderInterval:    80 * time.Millisecond,
		IntroStepInterval: 80 * time.Millisecond,
		RevealDelay:       350 * time.Millisecond,
	}
}

// EngineOption configures a TimerEngine.
type EngineOption func(*TimerEngine)

// WithChime sets the transition cue.
func WithChime(c ports.Chime) EngineOption {
	return func(e *TimerEngine) { e.chime = c }
}

// WithEngineConfig overrides the cadences. Zero fields keep their defaults,
// except RevealDelay where zero disables the reveal.
func WithEngineConfig(cfg EngineConfig) EngineOption {
	return func(e *TimerEngine) {
		if cfg.TickInterval > 0 {
			e.cfg.TickInterval = cfg.TickInterval
		}
		if cfg.RenderInterval > 0 {
			e.cfg.RenderInterval = cfg.RenderInterval
		}
		if cfg.IntroStepInterval > 0 {
			e.cfg.IntroStepInterval = cfg.IntroStepInterval
		}
		e.cfg.RevealDelay = cfg.RevealDelay
	}
}

type driverKind int

const (
	driverNone driverKind = iota
	driverCountdown
	driverIntro
)

// driver is the periodic process currently moving the timer. At most one
// is installed; installing another stops every handle of the previous one.
type driver struct {
	kind    driverKind
	handles []ports.Handle
}

func (d *driver) stop() {
	for _, h := range d.handles {
		h.Stop()
	}
	d.kind = driverNone
	d.handles = nil
}

// TimerEngine owns the focus/break countdown state machine.
//
// It is not safe for concurrent use. All commands and all scheduler
// callbacks must arrive on one goroutine; the schedulers in
// adapters/scheduler and the TUI guarantee this.
type TimerEngine struct {
	sched     ports.Scheduler
	durations ports.DurationSource
	chime     ports.Chime
	cfg       EngineConfig

	state                domain.TimerState
	editing              bool
	editText             string
	wasRunningBeforeEdit bool

	driver     driver
	reveal     ports.Handle
	introGoal  int
	lastTickAt time.Time

	observers  []observer
	observerID int
}

type observer struct {
	id int
	fn func(domain.Snapshot)
}

// NewTimerEngine creates an idle focus timer holding the focus default.
func NewTimerEngine(durations ports.DurationSource, sched ports.Scheduler, opts ...EngineOption) *TimerEngine {
	e := &TimerEngine{
		sched:     sched,
		durations: durations,
		cfg:       DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = domain.NewTimerState(e.defaultFor(domain.ModeFocus))
	return e
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unsubscribes.
func (e *TimerEngine) Subscribe(fn func(domain.Snapshot)) func() {
	e.observerID++
	id := e.observerID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeView registers a ports.TimerView.
func (e *TimerEngine) SubscribeView(v ports.TimerView) func() {
	return e.Subscribe(v.Render)
}

// Snapshot returns the current state without advancing the progress mark.
func (e *TimerEngine) Snapshot() domain.Snapshot {
	return e.snapshot(domain.CauseCommand)
}

// Dispatch executes a binding-layer command. CmdQuit is ignored; quitting
// is the front end's concern.
func (e *TimerEngine) Dispatch(cmd ports.TimerCommand) {
	switch cmd {
	case ports.CmdStartPause:
		e.StartPause()
	case ports.CmdReset:
		e.Reset()
	case ports.CmdSwitchNow:
		e.SwitchMode(true)
	case ports.CmdSwitch:
		e.SwitchMode(false)
	case ports.CmdEdit:
		e.EnterEdit()
	case ports.CmdCancelEdit:
		e.CancelEdit()
	case ports.CmdAdd5:
		e.AddMinutes(5)
	case ports.CmdAdd10:
		e.AddMinutes(10)
	case ports.CmdAdd15:
		e.AddMinutes(15)
	case ports.CmdSkipBreak:
		e.ToggleSkipNextBreak()
	}
}

// StartPause starts an idle or paused timer, or pauses a running one.
func (e *TimerEngine) StartPause() {
	if e.editing {
		return
	}
	if e.state.IsRunning {
		e.pause()
	} else {
		e.start()
	}
	e.publish(domain.CauseCommand)
}

func (e *TimerEngine) start() {
	e.finishIntro()
	if e.state.RemainingSeconds <= 0 {
		e.state.RemainingSeconds = e.defaultFor(e.state.Mode)
	}
	e.state.HasStartedInCurrentMode = true
	e.state.SessionDurationSeconds = e.state.RemainingSeconds
	e.runCountdown()
	if e.state.Mode == domain.ModeFocus {
		e.scheduleReveal()
	}
}

func (e *TimerEngine) pause() {
	e.driver.stop()
	e.cancelReveal()
	e.state.IsRunning = false
}

// runCountdown installs the one-second countdown and the render tick.
func (e *TimerEngine) runCountdown() {
	e.driver.stop()
	e.lastTickAt = e.sched.Now()
	e.state.IsRunning = true
	e.driver = driver{
		kind: driverCountdown,
		handles: []ports.Handle{
			e.sched.Every(e.cfg.TickInterval, e.tick),
			e.sched.Every(e.cfg.RenderInterval, e.renderTick),
		},
	}
}

func (e *TimerEngine) tick() {
	if e.driver.kind != driverCountdown {
		return
	}
	e.lastTickAt = e.sched.Now()
	e.state.RemainingSeconds--
	if e.state.RemainingSeconds > 0 {
		e.publish(domain.CauseTick)
		return
	}

	if e.state.Mode == domain.ModeFocus && e.state.SkipNextBreak {
		e.state.SkipNextBreak = false
		e.beginInterval(domain.ModeFocus)
		log.Printf("timer: focus restarted, break skipped interval=%s", e.state.IntervalID)
		e.publish(domain.CauseSkipRestart)
		return
	}

	if e.chime != nil && e.durations != nil && e.durations.SoundEnabled() {
		e.chime.PlayModeSwitch(e.state.Mode.Opposite())
	}
	e.beginInterval(e.state.Mode.Opposite())
	log.Printf("timer: switched to %s interval=%s", e.state.Mode, e.state.IntervalID)
	if e.state.Mode == domain.ModeFocus {
		e.scheduleReveal()
	}
	e.publish(domain.CauseTransition)
}

// beginInterval loads the default for m while the countdown keeps running.
func (e *TimerEngine) beginInterval(m domain.Mode) {
	d := e.defaultFor(m)
	e.state.Mode = m
	e.state.RemainingSeconds = d
	e.state.SessionDurationSeconds = d
	e.state.LastMinutesElapsedMark = -1
	e.state.IntervalID = domain.NewIntervalID()
}

func (e *TimerEngine) renderTick() {
	e.publish(domain.CauseRender)
}

// Reset returns to idle in the current mode with the mode default.
func (e *TimerEngine) Reset() {
	e.driver.stop()
	e.cancelReveal()
	e.editing = false
	e.editText = ""
	e.wasRunningBeforeEdit = false

	d := e.defaultFor(e.state.Mode)
	e.state.IsRunning = false
	e.state.HasStartedInCurrentMode = false
	e.state.SkipNextBreak = false
	e.state.HasRevealedSecondaryActions = false
	e.state.RemainingSeconds = d
	e.state.SessionDurationSeconds = d
	e.state.LastMinutesElapsedMark = -1
	e.state.IntervalID = domain.NewIntervalID()
	e.publish(domain.CauseCommand)
}

// SwitchMode flips between focus and break. With skipIntro the new
// default is loaded at once and a running countdown keeps running.
// Otherwise the countdown stops and the display ramps up to the new
// default before settling in the intro display.
func (e *TimerEngine) SwitchMode(skipIntro bool) {
	if e.editing {
		return
	}
	e.cancelReveal()
	e.state.HasRevealedSecondaryActions = false
	target := e.state.Mode.Opposite()

	if skipIntro {
		wasRunning := e.state.IsRunning
		if e.driver.kind == driverIntro {
			e.driver.stop()
		}
		e.beginInterval(target)
		e.state.HasStartedInCurrentMode = true
		if wasRunning {
			e.runCountdown()
			if target == domain.ModeFocus {
				e.scheduleReveal()
			}
		}
		e.publish(domain.CauseCommand)
		return
	}

	e.driver.stop()
	e.state.IsRunning = false
	e.beginInterval(target)
	e.state.HasStartedInCurrentMode = false
	e.introGoal = e.state.SessionDurationSeconds
	e.state.RemainingSeconds = 0
	step := target.IntroStepSeconds()
	e.driver = driver{
		kind:    driverIntro,
		handles: []ports.Handle{e.sched.Every(e.cfg.IntroStepInterval, func() { e.introStep(step) })},
	}
	e.publish(domain.CauseIntro)
}

func (e *TimerEngine) introStep(step int) {
	if e.driver.kind != driverIntro {
		return
	}
	next := e.state.RemainingSeconds + step
	if next >= e.introGoal {
		next = e.introGoal
		e.driver.stop()
	}
	e.state.RemainingSeconds = next
	e.publish(domain.CauseIntro)
}

// finishIntro completes an in-flight intro ramp at once.
func (e *TimerEngine) finishIntro() {
	if e.driver.kind != driverIntro {
		return
	}
	e.driver.stop()
	e.state.RemainingSeconds = e.introGoal
}

// EnterEdit suspends the countdown and opens the time for editing.
func (e *TimerEngine) EnterEdit() {
	if e.editing {
		return
	}
	e.finishIntro()
	e.wasRunningBeforeEdit = e.state.IsRunning
	e.driver.stop()
	e.cancelReveal()
	e.state.IsRunning = false
	e.editing = true
	e.editText = domain.FormatTime(e.state.RemainingSeconds)
	e.publish(domain.CauseEdit)
}

// CommitEdit applies text as the new remaining time and session length
// when it parses to a positive duration, then leaves edit mode. Invalid
// text keeps the previous value. It reports whether the value was applied.
func (e *TimerEngine) CommitEdit(text string) bool {
	if !e.editing {
		return false
	}
	applied := false
	if secs, err := domain.ParseTimeInput(text); err == nil && secs > 0 {
		secs = domain.ClampSeconds(secs, 1)
		e.state.RemainingSeconds = secs
		e.state.SessionDurationSeconds = secs
		e.state.LastMinutesElapsedMark = -1
		applied = true
	}
	e.leaveEdit()
	return applied
}

// CancelEdit leaves edit mode without applying any text.
func (e *TimerEngine) CancelEdit() {
	if !e.editing {
		return
	}
	e.leaveEdit()
}

func (e *TimerEngine) leaveEdit() {
	e.editing = false
	e.editText = ""
	resume := e.wasRunningBeforeEdit
	e.wasRunningBeforeEdit = false
	if resume {
		e.runCountdown()
		if e.state.Mode == domain.ModeFocus {
			e.scheduleReveal()
		}
	}
	e.publish(domain.CauseEdit)
}

// AddMinutes extends the remaining time, capped at 99:59. It is ignored
// while the countdown is running.
func (e *TimerEngine) AddMinutes(n int) {
	if n <= 0 || e.state.IsRunning {
		return
	}
	e.finishIntro()
	e.state.RemainingSeconds = domain.ClampSeconds(e.state.RemainingSeconds+n*60, 0)
	if e.editing {
		e.editText = domain.FormatTime(e.state.RemainingSeconds)
	}
	e.publish(domain.CauseCommand)
}

// ToggleSkipNextBreak arms or disarms restarting focus instead of taking
// the next break.
func (e *TimerEngine) ToggleSkipNextBreak() {
	if e.editing {
		return
	}
	e.state.SkipNextBreak = !e.state.SkipNextBreak
	e.publish(domain.CauseCommand)
}

// RefreshDefaults reloads the mode default into an idle timer after the
// preferences changed. Started, running or editing timers are untouched.
func (e *TimerEngine) RefreshDefaults() {
	if e.editing || e.state.IsRunning || e.state.HasStartedInCurrentMode || e.driver.kind == driverIntro {
		return
	}
	d := e.defaultFor(e.state.Mode)
	if d == e.state.RemainingSeconds && d == e.state.SessionDurationSeconds {
		return
	}
	e.state.RemainingSeconds = d
	e.state.SessionDurationSeconds = d
	e.publish(domain.CauseCommand)
}

// Stop cancels every scheduled callback. The engine keeps its state.
func (e *TimerEngine) Stop() {
	e.driver.stop()
	e.cancelReveal()
	e.state.IsRunning = false
}

func (e *TimerEngine) scheduleReveal() {
	e.cancelReveal()
	if e.cfg.RevealDelay <= 0 || e.state.HasRevealedSecondaryActions {
		return
	}
	e.reveal = e.sched.After(e.cfg.RevealDelay, func() {
		e.reveal = nil
		if e.state.IsRunning && e.state.Mode == domain.ModeFocus {
			e.state.HasRevealedSecondaryActions = true
			e.publish(domain.CauseReveal)
		}
	})
}

func (e *TimerEngine) cancelReveal() {
	if e.reveal != nil {
		e.reveal.Stop()
		e.reveal = nil
	}
}

func (e *TimerEngine) defaultFor(m domain.Mode) int {
	var secs int
	switch {
	case e.durations == nil && m == domain.ModeBreak:
		secs = domain.DefaultBreakMinutes * 60
	case e.durations == nil:
		secs = domain.DefaultFocusMinutes * 60
	case m == domain.ModeBreak:
		secs = e.durations.BreakDurationSeconds()
	default:
		secs = e.durations.FocusDurationSeconds()
	}
	return domain.ClampSeconds(secs, 1)
}

func (e *TimerEngine) snapshot(cause domain.Cause) domain.Snapshot {
	sub := 0.0
	if e.state.IsRunning && !e.lastTickAt.IsZero() {
		sub = e.sched.Now().Sub(e.lastTickAt).Seconds()
	}
	return domain.Snapshot{
		TimerState:     e.state,
		Editing:        e.editing,
		EditText:       e.editText,
		IntroAnimating: e.driver.kind == driverIntro,
		Cause:          cause,
		Progress: domain.ComputeProgress(
			e.state.SessionDurationSeconds,
			e.state.RemainingSeconds,
			sub,
			e.state.LastMinutesElapsedMark,
		),
	}
}

// publish notifies subscribers. The minute mark only advances while the
// progress indicator is on screen (started and not editing).
func (e *TimerEngine) publish(cause domain.Cause) {
	snap := e.snapshot(cause)
	if !e.editing && e.state.HasStartedInCurrentMode {
		e.state.LastMinutesElapsedMark = snap.Progress.ElapsedUnits
		snap.LastMinutesElapsedMark = e.state.LastMinutesElapsedMark
	}
	for _, o := range append([]observer(nil), e.observers...) {
		o.fn(snap)
	}
}
