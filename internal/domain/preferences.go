package domain

import "fmt"

const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5

	MinPreferenceMinutes = 1
	MaxPreferenceMinutes = 99
)

// ThemeID names a visual theme.
type ThemeID string

const (
	ThemeDefault     ThemeID = "default"
	ThemeCherry      ThemeID = "cherry"
	ThemeCherryverse ThemeID = "cherryverse"
	ThemeRetro       ThemeID = "retro"
)

// ValidThemes lists all supported themes in display order.
var ValidThemes = []ThemeID{ThemeDefault, ThemeCherry, ThemeCherryverse, ThemeRetro}

// ValidateTheme checks if a string is a known theme id.
func ValidateTheme(s string) (ThemeID, error) {
	t := ThemeID(s)
	for _, valid := range ValidThemes {
		if t == valid {
			return t, nil
		}
	}
	return ThemeDefault, fmt.Errorf("%w %q", ErrInvalidTheme, s)
}

// Label returns the name shown in the theme picker.
func (t ThemeID) Label() string {
	switch t {
	case ThemeCherry:
		return "Cherry theme"
	case ThemeCherryverse:
		return "Cherryverse theme"
	case ThemeRetro:
		return "Retro pixel theme"
	default:
		return "Minimal theme"
	}
}

// Preferences are the user settings kept in the key-value store.
type Preferences struct {
	FocusMinutes int     `json:"focus_minutes" yaml:"focus_minutes" toml:"focus_minutes"`
	BreakMinutes int     `json:"break_minutes" yaml:"break_minutes" toml:"break_minutes"`
	SoundEnabled bool    `json:"sound_enabled" yaml:"sound_enabled" toml:"sound_enabled"`
	Theme        ThemeID `json:"theme" yaml:"theme" toml:"theme"`
}

// DefaultPreferences returns the built-in settings.
func DefaultPreferences() Preferences {
	return Preferences{
		FocusMinutes: DefaultFocusMinutes,
		BreakMinutes: DefaultBreakMinutes,
		SoundEnabled: true,
		Theme:        ThemeDefault,
	}
}

// ValidMinutes reports whether n is an acceptable default duration.
func ValidMinutes(n int) bool {
	return n >= MinPreferenceMinutes && n <= MaxPreferenceMinutes
}

// ClampMinutes bounds n to the accepted default duration range.
func ClampMinutes(n int) int {
	if n < MinPreferenceMinutes {
		return MinPreferenceMinutes
	}
	if n > MaxPreferenceMinutes {
		return MaxPreferenceMinutes
	}
	return n
}

// MinutesFor returns the default duration for a mode.
func (p Preferences) MinutesFor(m Mode) int {
	if m == ModeBreak {
		return p.BreakMinutes
	}
	return p.FocusMinutes
}
