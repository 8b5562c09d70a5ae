package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphs is a 3x5 block font for the clock face.
var glyphs = map[rune][5]string{
	'0': {"▛▀▜", "▌ ▐", "▌ ▐", "▌ ▐", "▙▄▟"},
	'1': {" ▟ ", "▝▐ ", " ▐ ", " ▐ ", "▗▟▖"},
	'2': {"▀▀▜", "  ▐", "▛▀▘", "▌  ", "▙▄▄"},
	'3': {"▀▀▜", "  ▐", " ▀▜", "  ▐", "▄▄▟"},
	'4': {"▌ ▐", "▌ ▐", "▀▀▜", "  ▐", "  ▐"},
	'5': {"▛▀▀", "▌  ", "▀▀▜", "  ▐", "▄▄▟"},
	'6': {"▛▀▀", "▌  ", "▛▀▜", "▌ ▐", "▙▄▟"},
	'7': {"▀▀▜", "  ▐", "  ▞", " ▞ ", " ▌ "},
	'8': {"▛▀▜", "▌ ▐", "▛▀▜", "▌ ▐", "▙▄▟"},
	'9': {"▛▀▜", "▌ ▐", "▀▀▜", "  ▐", "▄▄▟"},
	':': {" ", "▪", " ", "▪", " "},
}

// bigTimeMinWidth is the narrowest terminal that gets the block font.
const bigTimeMinWidth = 30

// renderBigTime draws a MM:SS string in the block font. Narrow terminals
// and strings with characters outside the font get a single bold line.
func renderBigTime(timeStr string, style lipgloss.Style, width int) string {
	if width < bigTimeMinWidth || !fitsFont(timeStr) {
		return style.Bold(true).Render(timeStr)
	}

	var rows [5]strings.Builder
	for i, ch := range timeStr {
		g := glyphs[ch]
		for r := range rows {
			if i > 0 {
				rows[r].WriteByte(' ')
			}
			rows[r].WriteString(g[r])
		}
	}

	lines := make([]string, len(rows))
	for r := range rows {
		lines[r] = style.Render(rows[r].String())
	}
	return strings.Join(lines, "\n")
}

func fitsFont(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if _, ok := glyphs[ch]; !ok {
			return false
		}
	}
	return true
}
