// Package domain contains the core entities of the tomato timer: modes,
// the countdown state, progress and preferences. It has no I/O and no
// knowledge of how the timer is scheduled or displayed.
package domain

// Phase is the run state within the current mode.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseEditing Phase = "editing"
)

// TimerState is the countdown state owned by the timer engine.
type TimerState struct {
	Mode                   Mode
	RemainingSeconds       int
	SessionDurationSeconds int
	IsRunning              bool

	// HasStartedInCurrentMode selects the active display over the intro
	// display. Cleared on reset and on an animated mode switch.
	HasStartedInCurrentMode bool

	// SkipNextBreak makes the next focus expiry restart focus instead of
	// starting a break. Consumed once.
	SkipNextBreak bool

	// LastMinutesElapsedMark is -1 until progress has been computed for
	// the current interval.
	LastMinutesElapsedMark int

	HasRevealedSecondaryActions bool

	// IntervalID identifies the interval in progress for log correlation.
	IntervalID string
}

// NewTimerState returns an idle focus state holding the given duration.
func NewTimerState(focusSeconds int) TimerState {
	focusSeconds = ClampSeconds(focusSeconds, 1)
	return TimerState{
		Mode:                   ModeFocus,
		RemainingSeconds:       focusSeconds,
		SessionDurationSeconds: focusSeconds,
		LastMinutesElapsedMark: -1,
		IntervalID:             generateID(),
	}
}

// IsIntro reports whether the intro display applies.
func (s TimerState) IsIntro() bool {
	return !s.IsRunning && !s.HasStartedInCurrentMode
}

// IsLastMinute reports whether the countdown is within its final minute.
func (s TimerState) IsLastMinute() bool {
	return s.RemainingSeconds > 0 && s.RemainingSeconds <= 60
}

// Cause tells subscribers what produced a snapshot.
type Cause string

const (
	CauseCommand     Cause = "command"
	CauseTick        Cause = "tick"
	CauseTransition  Cause = "transition"
	CauseSkipRestart Cause = "skip-restart"
	CauseRender      Cause = "render"
	CauseIntro       Cause = "intro"
	CauseReveal      Cause = "reveal"
	CauseEdit        Cause = "edit"
)

// Snapshot is an immutable copy of the engine state handed to subscribers.
type Snapshot struct {
	TimerState

	Editing        bool
	EditText       string
	IntroAnimating bool
	Cause          Cause
	Progress       Progress
}

// Phase derives the run state shown to the user.
func (s Snapshot) Phase() Phase {
	switch {
	case s.Editing:
		return PhaseEditing
	case s.IsRunning:
		return PhaseRunning
	case s.HasStartedInCurrentMode:
		return PhasePaused
	default:
		return PhaseIdle
	}
}
