package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tomato/internal/domain"
)

func snapshot(mut func(*domain.Snapshot)) domain.Snapshot {
	s := domain.Snapshot{TimerState: domain.NewTimerState(25 * 60)}
	if mut != nil {
		mut(&s)
	}
	return s
}

func TestProject_Intro(t *testing.T) {
	tests := []struct {
		name     string
		mode     domain.Mode
		headline string
		switchTo string
	}{
		{"focus", domain.ModeFocus, "Your focus time is set for", "Switch to break"},
		{"break", domain.ModeBreak, "Your break time is set for", "Switch to focus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Project(snapshot(func(s *domain.Snapshot) { s.Mode = tt.mode }), true)
			if !l.Intro {
				t.Fatal("expected intro layout")
			}
			if l.Headline != tt.headline || l.Suffix != "minutes." {
				t.Errorf("copy = %q ... %q", l.Headline, l.Suffix)
			}
			if l.SwitchLabel != tt.switchTo {
				t.Errorf("SwitchLabel = %q, want %q", l.SwitchLabel, tt.switchTo)
			}
			if l.ShowReset || l.ShowProgress {
				t.Error("reset and progress are hidden in the intro display")
			}
			if l.StartPause != "Start" {
				t.Errorf("StartPause = %q, want Start", l.StartPause)
			}
		})
	}
}

func TestProject_Active(t *testing.T) {
	running := snapshot(func(s *domain.Snapshot) {
		s.IsRunning = true
		s.HasStartedInCurrentMode = true
	})
	l := Project(running, true)
	if l.Headline != "You are in the zone" || l.Suffix != "" {
		t.Errorf("copy = %q %q", l.Headline, l.Suffix)
	}
	if l.StartPause != "Pause" {
		t.Errorf("StartPause = %q, want Pause", l.StartPause)
	}
	if l.ShowSwitch {
		t.Error("switch row is hidden while running")
	}
	if !l.ShowReset || !l.ShowProgress {
		t.Error("reset and progress are shown once started")
	}

	paused := snapshot(func(s *domain.Snapshot) {
		s.Mode = domain.ModeBreak
		s.HasStartedInCurrentMode = true
	})
	l = Project(paused, true)
	if l.Headline != "You are on a break" {
		t.Errorf("break headline = %q", l.Headline)
	}
	if !l.ShowSwitch || l.SwitchLabel != "Start focus now" {
		t.Errorf("paused break switch = %v %q", l.ShowSwitch, l.SwitchLabel)
	}
}

func TestProject_RevealedActions(t *testing.T) {
	revealed := snapshot(func(s *domain.Snapshot) {
		s.IsRunning = true
		s.HasStartedInCurrentMode = true
		s.HasRevealedSecondaryActions = true
	})

	if l := Project(revealed, true); !l.ShowBreakNow || l.BreakNowLabel != "Start break now" {
		t.Errorf("revealed focus actions = %v %q", l.ShowBreakNow, l.BreakNowLabel)
	}
	if l := Project(revealed, false); l.ShowBreakNow {
		t.Error("reveal disabled should hide the focus actions")
	}

	revealed.Editing = true
	if l := Project(revealed, true); l.ShowBreakNow {
		t.Error("edit mode hides the focus actions")
	}
}

func TestProject_Editing(t *testing.T) {
	l := Project(snapshot(func(s *domain.Snapshot) {
		s.HasStartedInCurrentMode = true
		s.Editing = true
		s.EditText = "12:34"
	}), true)

	if l.Time != "12:34" {
		t.Errorf("Time = %q, want the edit text", l.Time)
	}
	if !l.ShowAdjust || l.ShowProgress || l.ShowReset || l.ShowSwitch {
		t.Errorf("edit layout = %+v", l)
	}
}

func TestProject_LastMinute(t *testing.T) {
	tests := []struct {
		remaining int
		want      bool
	}{
		{61, false},
		{60, true},
		{1, true},
		{0, false},
	}
	for _, tt := range tests {
		l := Project(snapshot(func(s *domain.Snapshot) { s.RemainingSeconds = tt.remaining }), true)
		if l.LastMinute != tt.want {
			t.Errorf("remaining %d: LastMinute = %v, want %v", tt.remaining, l.LastMinute, tt.want)
		}
	}
}

func TestRenderBigTime(t *testing.T) {
	style := lipgloss.NewStyle()

	big := renderBigTime("25:00", style, 80)
	if n := strings.Count(big, "\n"); n != 4 {
		t.Errorf("expected 5 rows, got %d", n+1)
	}

	if got := renderBigTime("25:00", style, 20); got != "25:00" {
		t.Errorf("narrow terminal should render one line, got %q", got)
	}
	if got := renderBigTime("1x", style, 80); got != "1x" {
		t.Errorf("unknown glyphs should render one line, got %q", got)
	}
}

func TestThemeFor_Fallback(t *testing.T) {
	if ThemeFor("neon").Focus != ThemeFor(domain.ThemeDefault).Focus {
		t.Error("unknown theme should fall back to the minimal theme")
	}
	for _, id := range domain.ValidThemes {
		if ThemeFor(id).FilledGlyph == "" {
			t.Errorf("theme %q has no glyphs", id)
		}
	}
}

func TestTheme_Partial(t *testing.T) {
	th := ThemeFor(domain.ThemeDefault)
	if got := th.partial(0); got != "○" {
		t.Errorf("partial(0) = %q", got)
	}
	if got := th.partial(0.99); got != "◕" {
		t.Errorf("partial(0.99) = %q", got)
	}
}

func TestFilterThemes(t *testing.T) {
	if got := filterThemes(""); len(got) != len(domain.ValidThemes) {
		t.Errorf("empty query should list every theme, got %v", got)
	}
	got := filterThemes("retro")
	if len(got) == 0 || got[0] != domain.ThemeRetro {
		t.Errorf("filterThemes(retro) = %v", got)
	}
	if got := filterThemes("zzz"); len(got) != 0 {
		t.Errorf("filterThemes(zzz) = %v, want none", got)
	}
}

func TestTeaScheduler_DropsStoppedHandles(t *testing.T) {
	s := newTeaScheduler()
	calls := 0

	h := s.Every(time.Second, func() { calls++ })
	if s.drain() == nil {
		t.Fatal("Every should queue a tick")
	}
	id := s.live(time.Second)[0]

	s.fire(id)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if s.drain() == nil {
		t.Error("a periodic timer re-arms after firing")
	}

	h.Stop()
	s.fire(id)
	if calls != 1 {
		t.Errorf("stopped handle fired, calls = %d", calls)
	}
	if s.drain() != nil {
		t.Error("nothing should be queued after a dropped message")
	}
}

func TestTeaScheduler_AfterFiresOnce(t *testing.T) {
	s := newTeaScheduler()
	calls := 0
	s.After(350*time.Millisecond, func() { calls++ })
	id := s.live(350 * time.Millisecond)[0]

	s.fire(id)
	s.fire(id)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(s.timers) != 0 {
		t.Errorf("one-shot timer still registered")
	}
}
