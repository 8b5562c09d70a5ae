package domain

import "testing"

func TestNewTimerState(t *testing.T) {
	s := NewTimerState(1500)

	if s.Mode != ModeFocus {
		t.Errorf("Mode = %v, want %v", s.Mode, ModeFocus)
	}
	if s.RemainingSeconds != 1500 || s.SessionDurationSeconds != 1500 {
		t.Errorf("Remaining/Session = %d/%d, want 1500/1500", s.RemainingSeconds, s.SessionDurationSeconds)
	}
	if s.LastMinutesElapsedMark != -1 {
		t.Errorf("LastMinutesElapsedMark = %d, want -1", s.LastMinutesElapsedMark)
	}
	if s.IntervalID == "" {
		t.Error("IntervalID is empty")
	}
	if !s.IsIntro() {
		t.Error("new state should show the intro display")
	}
}

func TestNewTimerState_ClampsDuration(t *testing.T) {
	if got := NewTimerState(0).RemainingSeconds; got != 1 {
		t.Errorf("NewTimerState(0).RemainingSeconds = %d, want 1", got)
	}
	if got := NewTimerState(10_000).RemainingSeconds; got != MaxSeconds {
		t.Errorf("NewTimerState(10000).RemainingSeconds = %d, want %d", got, MaxSeconds)
	}
}

func TestTimerState_IsLastMinute(t *testing.T) {
	tests := []struct {
		remaining int
		want      bool
	}{
		{0, false},
		{1, true},
		{60, true},
		{61, false},
	}
	for _, tt := range tests {
		s := TimerState{RemainingSeconds: tt.remaining}
		if got := s.IsLastMinute(); got != tt.want {
			t.Errorf("IsLastMinute() with %d remaining = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestSnapshot_Phase(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want Phase
	}{
		{name: "idle", snap: Snapshot{}, want: PhaseIdle},
		{name: "running", snap: Snapshot{TimerState: TimerState{IsRunning: true, HasStartedInCurrentMode: true}}, want: PhaseRunning},
		{name: "paused", snap: Snapshot{TimerState: TimerState{HasStartedInCurrentMode: true}}, want: PhasePaused},
		{name: "editing wins", snap: Snapshot{Editing: true, TimerState: TimerState{IsRunning: true}}, want: PhaseEditing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Phase(); got != tt.want {
				t.Errorf("Phase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMode(t *testing.T) {
	if ModeFocus.Opposite() != ModeBreak || ModeBreak.Opposite() != ModeFocus {
		t.Error("Opposite() should flip between focus and break")
	}
	if ModeFocus.IntroStepSeconds() != 300 {
		t.Errorf("focus intro step = %d, want 300", ModeFocus.IntroStepSeconds())
	}
	if ModeBreak.IntroStepSeconds() != 60 {
		t.Errorf("break intro step = %d, want 60", ModeBreak.IntroStepSeconds())
	}
	if ModeBreak.Label() != "Break" {
		t.Errorf("Label() = %q, want Break", ModeBreak.Label())
	}
}

func TestValidateMode(t *testing.T) {
	if m, err := ValidateMode("break"); err != nil || m != ModeBreak {
		t.Errorf("ValidateMode(break) = %v, %v", m, err)
	}
	if _, err := ValidateMode("nap"); err == nil {
		t.Error("ValidateMode(nap) should fail")
	}
}
