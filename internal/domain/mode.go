package domain

import "fmt"

// Mode is the kind of interval the timer is counting down.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// ValidModes lists all supported mode values.
var ValidModes = []Mode{ModeFocus, ModeBreak}

// ValidateMode checks if a string is a valid mode.
func ValidateMode(s string) (Mode, error) {
	m := Mode(s)
	for _, valid := range ValidModes {
		if m == valid {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q: must be one of focus, break", s)
}

// Opposite returns the mode the timer flips to when an interval ends.
func (m Mode) Opposite() Mode {
	if m == ModeBreak {
		return ModeFocus
	}
	return ModeBreak
}

// Label returns a human-readable label.
func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// IntroStepSeconds is how far each frame of the intro ramp advances the
// display when switching into this mode.
func (m Mode) IntroStepSeconds() int {
	if m == ModeBreak {
		return 60
	}
	return 300
}
