package domain

import (
	"errors"
	"testing"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()

	if p.FocusMinutes != 25 {
		t.Errorf("FocusMinutes = %d, want 25", p.FocusMinutes)
	}
	if p.BreakMinutes != 5 {
		t.Errorf("BreakMinutes = %d, want 5", p.BreakMinutes)
	}
	if !p.SoundEnabled {
		t.Error("SoundEnabled should default to true")
	}
	if p.Theme != ThemeDefault {
		t.Errorf("Theme = %v, want %v", p.Theme, ThemeDefault)
	}
	if p.MinutesFor(ModeBreak) != 5 || p.MinutesFor(ModeFocus) != 25 {
		t.Error("MinutesFor() returned the wrong mode default")
	}
}

func TestValidateTheme(t *testing.T) {
	for _, id := range ValidThemes {
		if got, err := ValidateTheme(string(id)); err != nil || got != id {
			t.Errorf("ValidateTheme(%q) = %v, %v", id, got, err)
		}
	}

	got, err := ValidateTheme("neon")
	if !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("ValidateTheme(neon) error = %v, want ErrInvalidTheme", err)
	}
	if got != ThemeDefault {
		t.Errorf("ValidateTheme(neon) = %v, want fallback %v", got, ThemeDefault)
	}
}

func TestThemeLabels(t *testing.T) {
	want := map[ThemeID]string{
		ThemeDefault:     "Minimal theme",
		ThemeCherry:      "Cherry theme",
		ThemeCherryverse: "Cherryverse theme",
		ThemeRetro:       "Retro pixel theme",
	}
	for id, label := range want {
		if id.Label() != label {
			t.Errorf("%s.Label() = %q, want %q", id, id.Label(), label)
		}
	}
}

func TestClampMinutes(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{1, 1},
		{42, 42},
		{99, 99},
		{150, 99},
	}
	for _, tt := range tests {
		if got := ClampMinutes(tt.in); got != tt.want {
			t.Errorf("ClampMinutes(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if ValidMinutes(tt.in) != (tt.in == tt.want) {
			t.Errorf("ValidMinutes(%d) disagrees with ClampMinutes", tt.in)
		}
	}
}
