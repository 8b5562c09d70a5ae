package tui

import (
	"context"
	"fmt"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tomato/internal/adapters/watcher"
	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/services"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	model    Model
	cfg      *config.Config
	program  *tea.Program
	cancel   context.CancelFunc
	mu       sync.Mutex
	wg       sync.WaitGroup
	watch    string
	siblings []string
}

// TimerOption configures a Timer.
type TimerOption func(*Timer)

// WithWatchPath reloads preferences when path (or a sibling named path
// plus one of suffixes) changes on disk.
func WithWatchPath(path string, suffixes ...string) TimerOption {
	return func(t *Timer) {
		t.watch = path
		t.siblings = suffixes
	}
}

// NewTimer creates a new TUI timer adapter.
func NewTimer(prefs *services.PreferencesService, cfg *config.Config, chime ports.Chime, opts ...TimerOption) *Timer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var engineOpts []services.EngineOption
	if chime != nil {
		engineOpts = append(engineOpts, services.WithChime(chime))
	}
	t := &Timer{
		model: NewModel(prefs, cfg, engineOpts...),
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)

// Run starts the timer interface and blocks until the user quits or ctx
// is cancelled.
func (t *Timer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.model.ctx = ctx
	var popts []tea.ProgramOption
	if t.cfg.UI.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}

	t.mu.Lock()
	t.program = tea.NewProgram(t.model, popts...)
	t.cancel = cancel
	program := t.program
	t.mu.Unlock()

	if t.watch != "" {
		w, err := watcher.New(t.watch,
			watcher.WithSiblings(t.siblings...),
			watcher.WithOnChange(func() { program.Send(prefsChangedMsg{}) }),
			watcher.WithOnError(func(err error) { log.Printf("tui: watcher: %v", err) }),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.Printf("tui: preference watcher disabled: %v", err)
		} else {
			defer w.Stop()
		}
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	final, err := program.Run()
	cancel()
	t.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if fm, ok := final.(Model); ok {
		fm.engine.Stop()
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	if t.program != nil {
		t.program.Quit()
	}
}
