package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/presets"
)

type settingsRow int

const (
	rowFocus settingsRow = iota
	rowBreak
	rowPomodoro
	rowSound
	rowTheme
	rowCount
)

type settingsState struct {
	row     settingsRow
	filter  textinput.Model
	matches []domain.ThemeID
}

func newSettingsState() settingsState {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "/ "
	ti.CharLimit = 20
	ti.Width = 16
	return settingsState{filter: ti, matches: filterThemes("")}
}

// filterThemes ranks themes against query by id and label. An empty query
// keeps the display order.
func filterThemes(query string) []domain.ThemeID {
	if strings.TrimSpace(query) == "" {
		return append([]domain.ThemeID(nil), domain.ValidThemes...)
	}
	names := make([]string, len(domain.ValidThemes))
	for i, t := range domain.ValidThemes {
		names[i] = string(t) + " " + t.Label()
	}
	var out []domain.ThemeID
	for _, match := range fuzzy.Find(query, names) {
		out = append(out, domain.ValidThemes[match.Index])
	}
	return out
}

func (m *Model) openSettings() {
	m.showSettings = true
	m.settings.row = rowFocus
	m.settings.filter.SetValue("")
	m.settings.matches = filterThemes("")
}

func (m *Model) closeSettings() {
	m.showSettings = false
	m.settings.filter.Blur()
	m.engine.RefreshDefaults()
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	s := &m.settings

	switch msg.String() {
	case "esc", ",":
		m.closeSettings()
		return nil
	case "ctrl+c":
		m.engine.Stop()
		return tea.Quit
	case "up", "shift+tab":
		if s.row > 0 {
			s.row--
		}
		return m.focusFilter()
	case "down", "tab":
		if s.row < rowCount-1 {
			s.row++
		}
		return m.focusFilter()
	case "left":
		m.adjust(-1)
		return nil
	case "right":
		m.adjust(1)
		return nil
	case " ", "enter":
		if s.row == rowPomodoro || s.row == rowSound {
			m.adjust(1)
			return nil
		}
	case "p":
		if s.row != rowTheme {
			m.togglePomodoro()
			return nil
		}
	}

	if s.row != rowTheme {
		return nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.matches = filterThemes(s.filter.Value())
	if len(s.matches) > 0 && s.matches[0] != m.themeID {
		m.applyTheme(s.matches[0])
	}
	return cmd
}

func (m *Model) focusFilter() tea.Cmd {
	if m.settings.row == rowTheme {
		return m.settings.filter.Focus()
	}
	m.settings.filter.Blur()
	return nil
}

// adjust changes the value on the selected row in direction dir.
// Every change is saved at once and an idle timer picks it up.
func (m *Model) adjust(dir int) {
	switch m.settings.row {
	case rowFocus, rowBreak:
		mode := domain.ModeFocus
		if m.settings.row == rowBreak {
			mode = domain.ModeBreak
		}
		next := presets.Step(mode, m.prefs.MinutesFor(m.ctx, mode), dir)
		if err := m.prefs.SetMinutes(m.ctx, mode, next); err == nil {
			m.engine.RefreshDefaults()
		}
	case rowPomodoro:
		m.togglePomodoro()
	case rowSound:
		m.toggleSound()
	case rowTheme:
		m.cycleTheme(dir)
	}
}

// togglePomodoro flips the classic 25/5 rhythm on or off. The focus value
// decides the direction; a break value already on the other side stays.
func (m *Model) togglePomodoro() {
	on := presets.Classify(domain.ModeFocus, m.prefs.FocusMinutes(m.ctx)) == presets.KindPomodoro
	for _, mode := range domain.ValidModes {
		cur := m.prefs.MinutesFor(m.ctx, mode)
		if (cur == presets.PomodoroMinutes(mode)) != on {
			continue
		}
		_ = m.prefs.SetMinutes(m.ctx, mode, presets.TogglePomodoro(mode, cur))
	}
	m.engine.RefreshDefaults()
}

func (m *Model) cycleTheme(dir int) {
	list := m.settings.matches
	if len(list) == 0 {
		return
	}
	idx := 0
	for i, t := range list {
		if t == m.themeID {
			idx = i + dir
			break
		}
	}
	idx = (idx%len(list) + len(list)) % len(list)
	m.applyTheme(list[idx])
}

func (m *Model) applyTheme(t domain.ThemeID) {
	if err := m.prefs.SetTheme(m.ctx, t); err != nil {
		return
	}
	m.themeID = t
	m.theme = ThemeFor(t)
}

func (m Model) viewSettings() string {
	s := m.settings
	activeStyle := lipgloss.NewStyle().Foreground(m.theme.Focus).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Help)
	arrowStyle := lipgloss.NewStyle().Foreground(m.theme.Focus).Bold(true)

	focus := m.prefs.FocusMinutes(m.ctx)
	brk := m.prefs.BreakMinutes(m.ctx)
	pomodoro := "off"
	if presets.Classify(domain.ModeFocus, focus) == presets.KindPomodoro {
		pomodoro = "on"
	}
	sound := "off"
	if m.sound {
		sound = "on"
	}

	values := [rowCount][2]string{
		rowFocus:    {"Focus", fmt.Sprintf("%d min  %s", focus, presets.Name(domain.ModeFocus, focus))},
		rowBreak:    {"Break", fmt.Sprintf("%d min  %s", brk, presets.Name(domain.ModeBreak, brk))},
		rowPomodoro: {"Pomodoro", pomodoro},
		rowSound:    {"Sound", sound},
		rowTheme:    {"Theme", m.themeID.Label()},
	}

	var b strings.Builder
	for i, v := range values {
		line := fmt.Sprintf(" %-10s %s", v[0], v[1])
		if settingsRow(i) == s.row {
			b.WriteString(arrowStyle.Render("▸") + activeStyle.Render(line) + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render(line) + "\n")
		}
	}

	if s.row == rowTheme {
		b.WriteString("\n  " + s.filter.View() + "\n")
		for _, t := range s.matches {
			marker := "  "
			if t == m.themeID {
				marker = "• "
			}
			b.WriteString(dimStyle.Render("    "+marker+t.Label()) + "\n")
		}
		if len(s.matches) == 0 {
			b.WriteString(dimStyle.Render("    no matching theme") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ row · ←/→ change · p pomodoro · esc close") + "\n")
	return b.String()
}
