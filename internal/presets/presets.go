// Package presets holds the named default-duration choices offered for
// each mode, and the pomodoro toggle that switches between the classic
// 25/5 rhythm and the other presets.
// The settings overlay and the prefs form query this package instead of
// hard-coding minute values.
package presets

import "github.com/xvierd/tomato/internal/domain"

// Preset is a named default duration.
type Preset struct {
	Name    string
	Minutes int
}

// Kind classifies a default duration against the presets of its mode.
type Kind int

const (
	KindPomodoro Kind = iota
	KindOther
	KindCustom
)

var (
	focusPresets = []Preset{
		{Name: "Quick Boost", Minutes: 15},
		{Name: "Pomodoro", Minutes: 25},
		{Name: "Deep Dive", Minutes: 40},
		{Name: "Power Session", Minutes: 55},
	}
	breakPresets = []Preset{
		{Name: "Short", Minutes: 5},
		{Name: "Relaxed", Minutes: 10},
		{Name: "Long", Minutes: 15},
	}
)

// For returns the presets of a mode in ascending order.
func For(m domain.Mode) []Preset {
	src := focusPresets
	if m == domain.ModeBreak {
		src = breakPresets
	}
	return append([]Preset(nil), src...)
}

// PomodoroMinutes returns the classic pomodoro length for a mode.
func PomodoroMinutes(m domain.Mode) int {
	if m == domain.ModeBreak {
		return domain.DefaultBreakMinutes
	}
	return domain.DefaultFocusMinutes
}

// Others returns the presets that are not the pomodoro length.
func Others(m domain.Mode) []Preset {
	pomodoro := PomodoroMinutes(m)
	var out []Preset
	for _, p := range For(m) {
		if p.Minutes != pomodoro {
			out = append(out, p)
		}
	}
	return out
}

// Classify reports whether minutes is the pomodoro length, another
// preset or a custom value.
func Classify(m domain.Mode, minutes int) Kind {
	if minutes == PomodoroMinutes(m) {
		return KindPomodoro
	}
	for _, p := range Others(m) {
		if p.Minutes == minutes {
			return KindOther
		}
	}
	return KindCustom
}

// TogglePomodoro returns the value after flipping the pomodoro switch:
// off moves to the first other preset, on restores the pomodoro length.
func TogglePomodoro(m domain.Mode, current int) int {
	if current == PomodoroMinutes(m) {
		return Others(m)[0].Minutes
	}
	return PomodoroMinutes(m)
}

// Step returns the preset adjacent to current in direction dir (+1 or -1).
// Custom values step to the nearest preset in that direction; the ends
// do not wrap.
func Step(m domain.Mode, current, dir int) int {
	list := For(m)
	if dir > 0 {
		for _, p := range list {
			if p.Minutes > current {
				return p.Minutes
			}
		}
		return list[len(list)-1].Minutes
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Minutes < current {
			return list[i].Minutes
		}
	}
	return list[0].Minutes
}

// Name returns the preset name for minutes, or "Custom".
func Name(m domain.Mode, minutes int) string {
	for _, p := range For(m) {
		if p.Minutes == minutes {
			return p.Name
		}
	}
	return "Custom"
}
