package tui

import (
	"strings"

	"github.com/xvierd/tomato/internal/domain"
)

// Layout is what a snapshot puts on screen, independent of styling. The
// headless renderer uses it too.
type Layout struct {
	Mode      domain.Mode
	ModeLabel string
	Time      string

	// Headline precedes the time and Suffix follows it.
	Headline string
	Suffix   string

	Intro          bool
	IntroAnimating bool
	LastMinute     bool
	Editing        bool

	StartPause  string
	ShowReset   bool
	ShowSwitch  bool
	SwitchLabel string

	// ShowBreakNow exposes the revealed focus actions: start the break
	// early and skip the next break.
	ShowBreakNow  bool
	BreakNowLabel string
	SkipArmed     bool

	ShowProgress bool
	ShowAdjust   bool
}

// Project computes the layout for snap. revealEnabled turns the delayed
// focus actions on.
func Project(snap domain.Snapshot, revealEnabled bool) Layout {
	intro := snap.IsIntro()
	l := Layout{
		Mode:           snap.Mode,
		ModeLabel:      snap.Mode.Label(),
		Time:           domain.FormatTime(snap.RemainingSeconds),
		Intro:          intro,
		IntroAnimating: snap.IntroAnimating,
		LastMinute:     snap.IsLastMinute(),
		Editing:        snap.Editing,
		StartPause:     "Start",
		ShowReset:      !intro && !snap.Editing,
		ShowSwitch:     !snap.IsRunning && !snap.Editing,
		SkipArmed:      snap.SkipNextBreak,
		ShowProgress:   !intro && !snap.Editing,
		ShowAdjust:     snap.Editing,
	}
	if snap.Editing {
		l.Time = snap.EditText
	}
	if snap.IsRunning {
		l.StartPause = "Pause"
	}

	switch {
	case intro && snap.Mode == domain.ModeBreak:
		l.Headline, l.Suffix = "Your break time is set for", "minutes."
	case intro:
		l.Headline, l.Suffix = "Your focus time is set for", "minutes."
	case snap.Mode == domain.ModeBreak:
		l.Headline = "You are on a break"
	default:
		l.Headline = "You are in the zone"
	}

	l.BreakNowLabel = startNowLabel(snap.Mode)
	if intro {
		l.SwitchLabel = "Switch to " + strings.ToLower(snap.Mode.Opposite().Label())
	} else {
		l.SwitchLabel = l.BreakNowLabel
	}

	l.ShowBreakNow = revealEnabled &&
		snap.Mode == domain.ModeFocus &&
		snap.HasRevealedSecondaryActions &&
		!intro &&
		!snap.Editing
	return l
}

func startNowLabel(m domain.Mode) string {
	if m == domain.ModeFocus {
		return "Start break now"
	}
	return "Start focus now"
}
