// Package notification plays the mode-transition cue: a two-tone beep
// and an optional desktop notification.
package notification

import (
	"log"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

// Tone is one note of the transition cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Offset   time.Duration
}

// ModeSwitchTones is a rising C5 to E5 pair.
var ModeSwitchTones = []Tone{
	{Freq: 523.25, Duration: 150 * time.Millisecond, Offset: 0},
	{Freq: 659.25, Duration: 200 * time.Millisecond, Offset: 200 * time.Millisecond},
}

// Notifier implements ports.Chime.
type Notifier struct {
	cfg    *config.NotificationConfig
	beep   func(freq float64, ms int) error
	notify func(title, message string, icon any) error
	sleep  func(time.Duration)
	async  bool
}

// Ensure Notifier implements ports.Chime.
var _ ports.Chime = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		beep:   beeep.Beep,
		notify: beeep.Notify,
		sleep:  time.Sleep,
		async:  true,
	}
}

// PlayModeSwitch plays the cue for a transition into mode to. It returns
// immediately; audio and notification failures are logged and dropped.
func (n *Notifier) PlayModeSwitch(to domain.Mode) {
	if n.async {
		go n.play(to)
		return
	}
	n.play(to)
}

func (n *Notifier) play(to domain.Mode) {
	if n.cfg == nil || n.cfg.Sound {
		var elapsed time.Duration
		for _, tone := range ModeSwitchTones {
			if wait := tone.Offset - elapsed; wait > 0 {
				n.sleep(wait)
				elapsed += wait
			}
			if err := n.beep(tone.Freq, int(tone.Duration/time.Millisecond)); err != nil {
				log.Printf("notification: beep unavailable: %v", err)
				break
			}
			elapsed += tone.Duration
		}
	}

	if n.IsEnabled() {
		title, message := transitionMessage(to)
		if err := n.notify(title, message, ""); err != nil {
			log.Printf("notification: desktop notification failed: %v", err)
		}
	}
}

// IsEnabled returns true if desktop notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

func transitionMessage(to domain.Mode) (string, string) {
	if to == domain.ModeBreak {
		return "☕ Break time", "Focus interval complete. Step away for a bit."
	}
	return "🍅 Back to focus", "Break is over. Ready when you are."
}
