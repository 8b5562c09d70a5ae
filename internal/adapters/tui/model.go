// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/services"
)

// justFilledFor is how long a freshly completed unit stays emphasized.
const justFilledFor = 500 * time.Millisecond

// flashDoneMsg ends the transition flash started with sequence seq.
type flashDoneMsg struct {
	seq int
}

// prefsChangedMsg reports that the preference store changed on disk.
type prefsChangedMsg struct{}

// screen is the render state shared with the engine subscription. The
// subscription runs inside Update, so no locking is needed.
type screen struct {
	snap domain.Snapshot

	flashing   bool
	flashSeq   int
	flashStart bool

	justFilled   int
	justFilledAt time.Time
}

// Model represents the TUI state.
type Model struct {
	ctx    context.Context
	engine *services.TimerEngine
	sched  *teaScheduler
	prefs  *services.PreferencesService
	cfg    *config.Config
	scr    *screen

	keys     keyMap
	editKeys editKeyMap
	help     help.Model
	input    textinput.Model

	themeID domain.ThemeID
	theme   Theme
	sound   bool

	showSettings bool
	settings     settingsState

	width  int
	height int
}

// NewModel creates the timer model. prefs must not be nil; cfg may be.
func NewModel(prefs *services.PreferencesService, cfg *config.Config, opts ...services.EngineOption) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sched := newTeaScheduler()
	ecfg := services.EngineConfig{
		TickInterval:      time.Duration(cfg.Timer.TickInterval),
		RenderInterval:    time.Duration(cfg.Timer.RenderInterval),
		IntroStepInterval: time.Duration(cfg.Timer.IntroStepInterval),
		RevealDelay:       time.Duration(cfg.Timer.RevealDelay),
	}
	if !cfg.UI.RevealActions {
		ecfg.RevealDelay = 0
	}
	opts = append([]services.EngineOption{services.WithEngineConfig(ecfg)}, opts...)
	engine := services.NewTimerEngine(prefs, sched, opts...)

	scr := &screen{justFilled: -1}
	scr.snap = engine.Snapshot()
	engine.Subscribe(func(s domain.Snapshot) {
		scr.snap = s
		if s.Cause == domain.CauseTransition {
			scr.flashStart = true
		}
		if s.Progress.JustFilledIndex >= 0 {
			scr.justFilled = s.Progress.JustFilledIndex
			scr.justFilledAt = sched.Now()
		}
	})

	ti := textinput.New()
	ti.Placeholder = "MM:SS"
	ti.CharLimit = 8
	ti.Width = 8
	ti.Prompt = "⏱ "

	m := Model{
		ctx:      context.Background(),
		engine:   engine,
		sched:    sched,
		prefs:    prefs,
		cfg:      cfg,
		scr:      scr,
		keys:     defaultKeyMap(),
		editKeys: defaultEditKeyMap(),
		help:     help.New(),
		input:    ti,
		settings: newSettingsState(),
	}
	m.loadPrefs()
	return m
}

// Engine returns the timer engine driven by this model.
func (m Model) Engine() *services.TimerEngine {
	return m.engine
}

// Snapshot returns the last snapshot the model rendered from.
func (m Model) Snapshot() domain.Snapshot {
	return m.scr.snap
}

func (m *Model) loadPrefs() {
	p := m.prefs.Load(m.ctx)
	m.themeID = p.Theme
	m.theme = ThemeFor(p.Theme)
	m.sound = p.SoundEnabled
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.sched.drain()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case schedMsg:
		m.sched.fire(msg.id)

	case flashDoneMsg:
		if msg.seq == m.scr.flashSeq {
			m.scr.flashing = false
		}

	case prefsChangedMsg:
		m.loadPrefs()
		m.engine.RefreshDefaults()

	case tea.KeyMsg:
		switch {
		case m.showSettings:
			cmd = m.updateSettings(msg)
		case m.scr.snap.Editing:
			cmd = m.updateEdit(msg)
		default:
			cmd = m.updateTimer(msg)
		}
	}

	return m, m.after(cmd)
}

// after collects the ticks the engine scheduled during this update and
// starts the transition flash if one was requested.
func (m Model) after(cmd tea.Cmd) tea.Cmd {
	cmds := []tea.Cmd{cmd, m.sched.drain()}
	if m.scr.flashStart {
		m.scr.flashStart = false
		m.scr.flashing = true
		m.scr.flashSeq++
		seq := m.scr.flashSeq
		cmds = append(cmds, tea.Tick(time.Duration(m.cfg.Timer.FlashDuration), func(time.Time) tea.Msg {
			return flashDoneMsg{seq: seq}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateTimer(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Stop()
		return tea.Quit
	case key.Matches(msg, m.keys.StartPause):
		m.engine.StartPause()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.SwitchNow):
		m.engine.SwitchMode(true)
	case key.Matches(msg, m.keys.Switch):
		m.engine.SwitchMode(false)
	case key.Matches(msg, m.keys.Edit):
		m.engine.EnterEdit()
		m.input.SetValue(m.scr.snap.EditText)
		m.input.CursorEnd()
		return m.input.Focus()
	case key.Matches(msg, m.keys.Add5):
		m.engine.AddMinutes(5)
	case key.Matches(msg, m.keys.SkipBreak):
		m.engine.ToggleSkipNextBreak()
	case key.Matches(msg, m.keys.Sound):
		m.toggleSound()
	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	add := 0
	switch {
	case key.Matches(msg, m.editKeys.Commit):
		m.engine.CommitEdit(m.input.Value())
		m.input.Blur()
		return nil
	case key.Matches(msg, m.editKeys.Cancel):
		m.engine.CancelEdit()
		m.input.Blur()
		return nil
	case key.Matches(msg, m.editKeys.Add5):
		add = 5
	case key.Matches(msg, m.editKeys.Add10):
		add = 10
	case key.Matches(msg, m.editKeys.Add15):
		add = 15
	case msg.String() == "ctrl+c":
		m.engine.Stop()
		return tea.Quit
	}
	if add > 0 {
		m.engine.AddMinutes(add)
		m.input.SetValue(m.scr.snap.EditText)
		m.input.CursorEnd()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) toggleSound() {
	next := !m.sound
	if err := m.prefs.SetSoundEnabled(m.ctx, next); err != nil {
		return
	}
	m.sound = next
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Title).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(m.theme.Help)

	if m.showSettings {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("🍅 Settings"),
			m.viewSettings(),
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}

	snap := m.scr.snap
	l := Project(snap, m.cfg.UI.RevealActions)
	accent := m.accent(l)
	timeStyle := lipgloss.NewStyle().Foreground(accent)
	headStyle := lipgloss.NewStyle().Foreground(m.theme.Title)

	var sections []string
	sections = append(sections, titleStyle.Render("🍅 "+l.ModeLabel))

	switch {
	case l.Editing:
		sections = append(sections, headStyle.Render("Set the time (MM:SS or minutes)"))
		sections = append(sections, m.input.View())
	case m.cfg.UI.BigDigits && m.width >= bigTimeMinWidth:
		sections = append(sections, headStyle.Render(l.Headline), "")
		sections = append(sections, renderBigTime(l.Time, timeStyle, m.width))
		if l.Suffix != "" {
			sections = append(sections, "", headStyle.Render(l.Suffix))
		}
	default:
		line := headStyle.Render(l.Headline+" ") + timeStyle.Bold(true).Render(l.Time)
		if l.Suffix != "" {
			line += headStyle.Render(" " + l.Suffix)
		}
		sections = append(sections, line)
	}

	if l.ShowProgress {
		sections = append(sections, "", m.viewUnits(snap.Progress, accent))
		start, end := m.theme.Gradient(l.Mode)
		bar := progress.New(progress.WithGradient(start, end), progress.WithoutPercentage())
		bar.Width = min(m.width-4, 30)
		sections = append(sections, bar.ViewAs(snap.Progress.PartialFill))
	}

	if !l.Editing {
		sections = append(sections, "", m.viewButtons(l))
		sections = append(sections, helpStyle.Render(m.statusLine(l)))
		sections = append(sections, "", m.help.View(m.keys))
	} else {
		sections = append(sections, "", m.help.View(m.editKeys))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// accent picks the clock color: flash, then last minute, then mode.
func (m Model) accent(l Layout) lipgloss.Color {
	switch {
	case m.scr.flashing:
		return m.theme.Flash
	case l.LastMinute && !l.Intro:
		return m.theme.LastMin
	default:
		return m.theme.ModeColor(l.Mode)
	}
}

func (m Model) viewUnits(p domain.Progress, accent lipgloss.Color) string {
	perRow := m.cfg.UI.UnitsPerRow
	if perRow < 1 {
		perRow = 5
	}
	emphasize := m.scr.justFilled >= 0 && m.sched.Now().Sub(m.scr.justFilledAt) < justFilledFor

	var rows, row []string
	for i := 0; i < p.TotalUnits; i++ {
		fill := p.UnitFill(i)
		style := lipgloss.NewStyle().Foreground(accent)
		var glyph string
		switch {
		case fill >= 1:
			glyph = m.theme.FilledGlyph
			if emphasize && i == m.scr.justFilled {
				style = style.Bold(true).Foreground(m.theme.Flash)
			}
		case i == p.PartialIndex:
			glyph = m.theme.partial(fill)
		default:
			glyph = m.theme.EmptyGlyph
			style = style.Foreground(m.theme.UnitEmpty)
		}
		row = append(row, style.Render(glyph))
		if len(row) == perRow {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewButtons(l Layout) string {
	btn := func(k, label string) string {
		keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.ModeColor(l.Mode))
		return keyStyle.Render("["+k+"]") + " " + label
	}

	parts := []string{btn("space", l.StartPause)}
	if l.ShowReset {
		parts = append(parts, btn("r", "Reset"))
	}
	if l.ShowSwitch {
		parts = append(parts, btn("m", l.SwitchLabel))
	}
	if l.ShowBreakNow {
		parts = append(parts, btn("n", l.BreakNowLabel))
		skip := "Skip next break"
		if l.SkipArmed {
			skip += " ✓"
		}
		parts = append(parts, btn("k", skip))
	}
	return strings.Join(parts, "   ")
}

func (m Model) statusLine(l Layout) string {
	sound := "off"
	if m.sound {
		sound = "on"
	}
	s := fmt.Sprintf("sound %s · %s", sound, m.themeID.Label())
	if l.SkipArmed {
		s += " · next break skipped"
	}
	return s
}
