package ports

import (
	"context"
	"time"

	"github.com/xvierd/tomato/internal/domain"
)

// Scheduler provides time and deferred execution to the timer engine.
// Every callback must run on the same goroutine as the engine's callers.
// This is a driven port (implemented by adapters).
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// Every calls fn each interval until the returned handle is stopped.
	Every(interval time.Duration, fn func()) Handle

	// After calls fn once after delay unless the handle is stopped first.
	After(delay time.Duration, fn func()) Handle
}

// Handle cancels a scheduled callback. Stop is idempotent.
type Handle interface {
	Stop()
}

// Chime plays the mode-transition cue. It must not block and must
// swallow audio failures.
// This is a driven port (implemented by adapters).
type Chime interface {
	PlayModeSwitch(to domain.Mode)
}

// TimerView receives engine snapshots after every state change.
// This is a driving port (implemented by render layers).
type TimerView interface {
	Render(snapshot domain.Snapshot)
}

// TimerCommand represents a user action during timer operation.
type TimerCommand string

const (
	// CmdStartPause toggles between running and paused.
	CmdStartPause TimerCommand = "start-pause"

	// CmdReset returns to idle in the current mode.
	CmdReset TimerCommand = "reset"

	// CmdSwitchNow flips mode immediately, keeping the countdown running.
	CmdSwitchNow TimerCommand = "switch-now"

	// CmdSwitch flips mode with the intro animation.
	CmdSwitch TimerCommand = "switch"

	// CmdEdit enters time edit mode.
	CmdEdit TimerCommand = "edit"

	// CmdCancelEdit leaves edit mode without applying.
	CmdCancelEdit TimerCommand = "cancel-edit"

	// CmdAdd5, CmdAdd10 and CmdAdd15 add minutes to the remaining time.
	CmdAdd5  TimerCommand = "add-5"
	CmdAdd10 TimerCommand = "add-10"
	CmdAdd15 TimerCommand = "add-15"

	// CmdSkipBreak toggles skipping the next break.
	CmdSkipBreak TimerCommand = "skip-break"

	// CmdQuit exits the application.
	CmdQuit TimerCommand = "quit"
)

// ParseTimerCommand maps a single-letter or named command to a TimerCommand.
func ParseTimerCommand(s string) (TimerCommand, bool) {
	switch s {
	case "p", "s", " ", string(CmdStartPause):
		return CmdStartPause, true
	case "r", string(CmdReset):
		return CmdReset, true
	case "n", string(CmdSwitchNow):
		return CmdSwitchNow, true
	case "m", string(CmdSwitch):
		return CmdSwitch, true
	case "e", string(CmdEdit):
		return CmdEdit, true
	case "x", string(CmdCancelEdit):
		return CmdCancelEdit, true
	case "+", "+5", string(CmdAdd5):
		return CmdAdd5, true
	case "+10", string(CmdAdd10):
		return CmdAdd10, true
	case "+15", string(CmdAdd15):
		return CmdAdd15, true
	case "k", string(CmdSkipBreak):
		return CmdSkipBreak, true
	case "q", string(CmdQuit):
		return CmdQuit, true
	}
	return "", false
}

// Timer is the interface of an interactive timer front end.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run starts the interface and blocks until the user quits or ctx ends.
	Run(ctx context.Context) error

	// Stop gracefully stops the interface.
	Stop()
}
