package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomato/internal/domain"
)

// Theme is the palette for one visual theme.
type Theme struct {
	Focus     lipgloss.Color
	Break     lipgloss.Color
	LastMin   lipgloss.Color
	Title     lipgloss.Color
	Help      lipgloss.Color
	Flash     lipgloss.Color
	UnitEmpty lipgloss.Color

	FocusGradientStart string
	FocusGradientEnd   string
	BreakGradientStart string
	BreakGradientEnd   string

	FilledGlyph  string
	EmptyGlyph   string
	PartialGlyph []string
}

var themes = map[domain.ThemeID]Theme{
	domain.ThemeDefault: {
		Focus:              "#FF6B6B",
		Break:              "#4ECDC4",
		LastMin:            "#FFD93D",
		Title:              "#E0E0E0",
		Help:               "#6C757D",
		Flash:              "#FFFFFF",
		UnitEmpty:          "#3A3A3A",
		FocusGradientStart: "#FF6B6B",
		FocusGradientEnd:   "#FFD93D",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#A8E6CF",
		FilledGlyph:        "●",
		EmptyGlyph:         "○",
		PartialGlyph:       []string{"○", "◔", "◑", "◕"},
	},
	domain.ThemeCherry: {
		Focus:              "#D7263D",
		Break:              "#F49FBC",
		LastMin:            "#FF9F1C",
		Title:              "#FFE3E8",
		Help:               "#9E6B77",
		Flash:              "#FFF0F3",
		UnitEmpty:          "#4A2030",
		FocusGradientStart: "#D7263D",
		FocusGradientEnd:   "#F49FBC",
		BreakGradientStart: "#F49FBC",
		BreakGradientEnd:   "#FFE3E8",
		FilledGlyph:        "🍒",
		EmptyGlyph:         "·",
		PartialGlyph:       []string{"·", "∘", "○", "◍"},
	},
	domain.ThemeCherryverse: {
		Focus:              "#B5179E",
		Break:              "#4CC9F0",
		LastMin:            "#F72585",
		Title:              "#E0AAFF",
		Help:               "#7B6D8D",
		Flash:              "#F72585",
		UnitEmpty:          "#2B1E3F",
		FocusGradientStart: "#7209B7",
		FocusGradientEnd:   "#F72585",
		BreakGradientStart: "#4361EE",
		BreakGradientEnd:   "#4CC9F0",
		FilledGlyph:        "✦",
		EmptyGlyph:         "✧",
		PartialGlyph:       []string{"✧", "⋆", "✶", "✷"},
	},
	domain.ThemeRetro: {
		Focus:              "#39FF14",
		Break:              "#00BFFF",
		LastMin:            "#FF3131",
		Title:              "#39FF14",
		Help:               "#2E7D32",
		Flash:              "#FFFF00",
		UnitEmpty:          "#1B3B1B",
		FocusGradientStart: "#1B5E20",
		FocusGradientEnd:   "#39FF14",
		BreakGradientStart: "#01579B",
		BreakGradientEnd:   "#00BFFF",
		FilledGlyph:        "█",
		EmptyGlyph:         "░",
		PartialGlyph:       []string{"░", "▒", "▓", "▓"},
	},
}

// ThemeFor returns the palette for id, falling back to the minimal theme.
func ThemeFor(id domain.ThemeID) Theme {
	if t, ok := themes[id]; ok {
		return t
	}
	return themes[domain.ThemeDefault]
}

// ModeColor returns the accent color for a mode.
func (t Theme) ModeColor(m domain.Mode) lipgloss.Color {
	if m == domain.ModeBreak {
		return t.Break
	}
	return t.Focus
}

// Gradient returns the progress bar gradient for a mode.
func (t Theme) Gradient(m domain.Mode) (string, string) {
	if m == domain.ModeBreak {
		return t.BreakGradientStart, t.BreakGradientEnd
	}
	return t.FocusGradientStart, t.FocusGradientEnd
}

// partial picks the glyph for a unit that is fill (0..1) full.
func (t Theme) partial(fill float64) string {
	n := len(t.PartialGlyph)
	if n == 0 {
		return t.EmptyGlyph
	}
	i := int(fill * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return t.PartialGlyph[i]
}
