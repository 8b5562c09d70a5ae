package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// Storage keys. Values are strings.
const (
	KeyFocusMinutes = "pomodoro-default-focus-min"
	KeyBreakMinutes = "pomodoro-default-break-min"
	KeyTheme        = "pomodoro-theme"
	KeySoundOn      = "pomodoro-sound-on"
)

// PreferenceKeys lists every key the service owns.
var PreferenceKeys = []string{KeyFocusMinutes, KeyBreakMinutes, KeyTheme, KeySoundOn}

// PreferencesService provides typed access to the preference store.
// Reads never fail: missing, malformed or unreadable values fall back
// to the built-in defaults.
type PreferencesService struct {
	store ports.KeyValueStore
}

// Ensure PreferencesService satisfies the ports it serves.
var (
	_ ports.DurationSource      = (*PreferencesService)(nil)
	_ ports.PreferencesProvider = (*PreferencesService)(nil)
)

// NewPreferencesService creates a new preferences service.
func NewPreferencesService(store ports.KeyValueStore) *PreferencesService {
	return &PreferencesService{store: store}
}

// Store returns the underlying key-value store.
func (s *PreferencesService) Store() ports.KeyValueStore {
	return s.store
}

// Load returns all preferences.
func (s *PreferencesService) Load(ctx context.Context) domain.Preferences {
	return domain.Preferences{
		FocusMinutes: s.FocusMinutes(ctx),
		BreakMinutes: s.BreakMinutes(ctx),
		SoundEnabled: s.Sound(ctx),
		Theme:        s.Theme(ctx),
	}
}

// FocusMinutes returns the focus default in minutes.
func (s *PreferencesService) FocusMinutes(ctx context.Context) int {
	return s.readMinutes(ctx, KeyFocusMinutes, domain.DefaultFocusMinutes)
}

// BreakMinutes returns the break default in minutes.
func (s *PreferencesService) BreakMinutes(ctx context.Context) int {
	return s.readMinutes(ctx, KeyBreakMinutes, domain.DefaultBreakMinutes)
}

// MinutesFor returns the default for the given mode.
func (s *PreferencesService) MinutesFor(ctx context.Context, m domain.Mode) int {
	if m == domain.ModeBreak {
		return s.BreakMinutes(ctx)
	}
	return s.FocusMinutes(ctx)
}

// Sound reports whether the chime is on. Only an explicit "false" turns
// it off.
func (s *PreferencesService) Sound(ctx context.Context) bool {
	raw, ok := s.read(ctx, KeySoundOn)
	if !ok {
		return true
	}
	return strings.TrimSpace(raw) != "false"
}

// Theme returns the stored theme, or the default theme when the stored
// id is unknown.
func (s *PreferencesService) Theme(ctx context.Context) domain.ThemeID {
	raw, ok := s.read(ctx, KeyTheme)
	if !ok {
		return domain.ThemeDefault
	}
	theme, err := domain.ValidateTheme(strings.TrimSpace(raw))
	if err != nil {
		return domain.ThemeDefault
	}
	return theme
}

// SetFocusMinutes stores the focus default.
func (s *PreferencesService) SetFocusMinutes(ctx context.Context, minutes int) error {
	return s.writeMinutes(ctx, KeyFocusMinutes, minutes)
}

// SetBreakMinutes stores the break default.
func (s *PreferencesService) SetBreakMinutes(ctx context.Context, minutes int) error {
	return s.writeMinutes(ctx, KeyBreakMinutes, minutes)
}

// SetMinutes stores the default for the given mode.
func (s *PreferencesService) SetMinutes(ctx context.Context, m domain.Mode, minutes int) error {
	if m == domain.ModeBreak {
		return s.SetBreakMinutes(ctx, minutes)
	}
	return s.SetFocusMinutes(ctx, minutes)
}

// SetSoundEnabled stores the sound toggle.
func (s *PreferencesService) SetSoundEnabled(ctx context.Context, enabled bool) error {
	if err := s.write(ctx, KeySoundOn, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to save sound preference: %w", err)
	}
	return nil
}

// SetTheme stores the theme id.
func (s *PreferencesService) SetTheme(ctx context.Context, theme domain.ThemeID) error {
	if _, err := domain.ValidateTheme(string(theme)); err != nil {
		return err
	}
	if err := s.write(ctx, KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// Set parses and stores a preference by its short name: focus, break,
// sound or theme.
func (s *PreferencesService) Set(ctx context.Context, name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	switch name {
	case "focus", "break":
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %q is not a whole number", domain.ErrInvalidMinutes, value)
		}
		if name == "break" {
			return s.SetBreakMinutes(ctx, minutes)
		}
		return s.SetFocusMinutes(ctx, minutes)
	case "sound":
		switch strings.ToLower(value) {
		case "on", "true", "yes", "1":
			return s.SetSoundEnabled(ctx, true)
		case "off", "false", "no", "0":
			return s.SetSoundEnabled(ctx, false)
		}
		return fmt.Errorf("invalid sound value %q: use on or off", value)
	case "theme":
		return s.SetTheme(ctx, domain.ThemeID(strings.ToLower(value)))
	}
	return fmt.Errorf("%w %q: must be one of focus, break, sound, theme", domain.ErrUnknownPreference, name)
}

// Reset removes every stored preference.
func (s *PreferencesService) Reset(ctx context.Context) error {
	for _, key := range PreferenceKeys {
		if err := s.remove(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// FocusDurationSeconds implements ports.DurationSource.
func (s *PreferencesService) FocusDurationSeconds() int {
	return s.FocusMinutes(context.Background()) * 60
}

// BreakDurationSeconds implements ports.DurationSource.
func (s *PreferencesService) BreakDurationSeconds() int {
	return s.BreakMinutes(context.Background()) * 60
}

// SoundEnabled implements ports.DurationSource.
func (s *PreferencesService) SoundEnabled() bool {
	return s.Sound(context.Background())
}

func (s *PreferencesService) read(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("preferences: read %s: %v", key, err)
		return "", false
	}
	return raw, ok
}

func (s *PreferencesService) write(ctx context.Context, key, value string) error {
	if s.store == nil {
		return domain.ErrNoStore
	}
	return s.store.Set(ctx, key, value)
}

func (s *PreferencesService) remove(ctx context.Context, key string) error {
	if s.store == nil {
		return domain.ErrNoStore
	}
	return s.store.Delete(ctx, key)
}

func (s *PreferencesService) readMinutes(ctx context.Context, key string, fallback int) int {
	raw, ok := s.read(ctx, key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !domain.ValidMinutes(n) {
		return fallback
	}
	return n
}

func (s *PreferencesService) writeMinutes(ctx context.Context, key string, minutes int) error {
	if !domain.ValidMinutes(minutes) {
		return fmt.Errorf("%w: %d (allowed %d-%d)", domain.ErrInvalidMinutes, minutes,
			domain.MinPreferenceMinutes, domain.MaxPreferenceMinutes)
	}
	if err := s.write(ctx, key, strconv.Itoa(minutes)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
