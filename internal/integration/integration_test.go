package integration

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xvierd/tomato/internal/adapters/scheduler"
	"github.com/xvierd/tomato/internal/adapters/storage"
	"github.com/xvierd/tomato/internal/adapters/watcher"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/services"
)

// setupTestStorage opens a preference store in a temporary directory.
func setupTestStorage(t *testing.T, backend string) (ports.KeyValueStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prefs")
	store, err := storage.Open(backend, path)
	if err != nil {
		t.Fatalf("failed to open %s store: %v", backend, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

type chimeLog struct {
	modes []domain.Mode
}

func (c *chimeLog) PlayModeSwitch(to domain.Mode) { c.modes = append(c.modes, to) }

// TestFullCycleWithStoredDefaults runs focus, break and focus again on
// defaults read from SQLite.
func TestFullCycleWithStoredDefaults(t *testing.T) {
	store, _ := setupTestStorage(t, storage.BackendSQLite)
	ctx := context.Background()

	prefs := services.NewPreferencesService(store)
	if err := prefs.Set(ctx, "focus", "2"); err != nil {
		t.Fatalf("set focus: %v", err)
	}
	if err := prefs.Set(ctx, "break", "1"); err != nil {
		t.Fatalf("set break: %v", err)
	}

	clock := scheduler.NewManual(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	chime := &chimeLog{}
	engine := services.NewTimerEngine(prefs, clock, services.WithChime(chime))

	var transitions []domain.Snapshot
	engine.Subscribe(func(s domain.Snapshot) {
		if s.Cause == domain.CauseTransition {
			transitions = append(transitions, s)
		}
	})

	if got := engine.Snapshot().RemainingSeconds; got != 120 {
		t.Fatalf("initial remaining = %d, want 120", got)
	}

	engine.StartPause()
	clock.Advance(120 * time.Second)

	if len(transitions) != 1 || transitions[0].Mode != domain.ModeBreak {
		t.Fatalf("expected one transition into break, got %+v", transitions)
	}
	if snap := engine.Snapshot(); !snap.IsRunning || snap.RemainingSeconds != 60 {
		t.Errorf("break should run from 60s, got running=%v remaining=%d", snap.IsRunning, snap.RemainingSeconds)
	}

	clock.Advance(60 * time.Second)
	if snap := engine.Snapshot(); snap.Mode != domain.ModeFocus || snap.RemainingSeconds != 120 {
		t.Errorf("expected focus at 120s after the break, got %s %d", snap.Mode, snap.RemainingSeconds)
	}

	want := []domain.Mode{domain.ModeBreak, domain.ModeFocus}
	if len(chime.modes) != len(want) || chime.modes[0] != want[0] || chime.modes[1] != want[1] {
		t.Errorf("chimes = %v, want %v", chime.modes, want)
	}
	if transitions[0].IntervalID == engine.Snapshot().IntervalID {
		t.Error("each interval should get a fresh id")
	}
	engine.Stop()
}

// TestSoundPreferenceMutesChime checks that the stored toggle is read at
// transition time.
func TestSoundPreferenceMutesChime(t *testing.T) {
	store, _ := setupTestStorage(t, storage.BackendTOML)
	ctx := context.Background()

	prefs := services.NewPreferencesService(store)
	_ = prefs.Set(ctx, "focus", "1")
	_ = prefs.Set(ctx, "sound", "off")

	clock := scheduler.NewManual(time.Unix(0, 0))
	chime := &chimeLog{}
	engine := services.NewTimerEngine(prefs, clock, services.WithChime(chime))

	engine.StartPause()
	clock.Advance(60 * time.Second)

	if engine.Snapshot().Mode != domain.ModeBreak {
		t.Fatal("expected a transition into break")
	}
	if len(chime.modes) != 0 {
		t.Errorf("sound off should not chime, got %v", chime.modes)
	}
	engine.Stop()
}

// TestPreferencesSurviveReopen tests persistence across store instances.
func TestPreferencesSurviveReopen(t *testing.T) {
	for _, backend := range []string{storage.BackendSQLite, storage.BackendTOML} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "prefs")

			first, err := storage.Open(backend, path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := services.NewPreferencesService(first).Set(ctx, "theme", "cherryverse"); err != nil {
				t.Fatalf("set theme: %v", err)
			}
			if err := first.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			second, err := storage.Open(backend, path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer second.Close()

			if got := services.NewPreferencesService(second).Theme(ctx); got != domain.ThemeCherryverse {
				t.Errorf("theme after reopen = %q, want cherryverse", got)
			}
		})
	}
}

// TestExternalEditReachesIdleTimer wires the watcher to RefreshDefaults
// the way the full-screen front end does.
func TestExternalEditReachesIdleTimer(t *testing.T) {
	store, path := setupTestStorage(t, storage.BackendTOML)
	ctx := context.Background()
	prefs := services.NewPreferencesService(store)

	var changed atomic.Int32
	w, err := watcher.New(path,
		watcher.WithDebounce(20*time.Millisecond),
		watcher.WithOnChange(func() { changed.Add(1) }),
	)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Stop()

	clock := scheduler.NewManual(time.Unix(0, 0))
	engine := services.NewTimerEngine(prefs, clock)

	// Another process edits the file.
	other, err := storage.Open(storage.BackendTOML, path)
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	if err := services.NewPreferencesService(other).Set(ctx, "focus", "45"); err != nil {
		t.Fatalf("external set: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for changed.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher did not report the external edit")
		}
		time.Sleep(10 * time.Millisecond)
	}

	engine.RefreshDefaults()
	if got := engine.Snapshot().RemainingSeconds; got != 45*60 {
		t.Errorf("idle timer remaining = %d, want %d", got, 45*60)
	}
}

// TestCorruptStoreFallsBackToDefaults checks that bad stored values never
// reach the engine.
func TestCorruptStoreFallsBackToDefaults(t *testing.T) {
	store, _ := setupTestStorage(t, storage.BackendSQLite)
	ctx := context.Background()

	for key, value := range map[string]string{
		services.KeyFocusMinutes: "-3",
		services.KeyBreakMinutes: "1e3",
		services.KeyTheme:        "neon",
		services.KeySoundOn:      "maybe",
	} {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	prefs := services.NewPreferencesService(store)
	if got, want := prefs.Load(ctx), domain.DefaultPreferences(); got != want {
		t.Errorf("Load() = %+v, want defaults %+v", got, want)
	}

	engine := services.NewTimerEngine(prefs, scheduler.NewManual(time.Unix(0, 0)))
	if got := engine.Snapshot().RemainingSeconds; got != domain.DefaultFocusMinutes*60 {
		t.Errorf("remaining = %d, want the 25 minute default", got)
	}
}
