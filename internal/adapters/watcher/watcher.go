// Package watcher notices when the preference store is modified by another
// process (a second tomato, the MCP server, or a hand edit) so the running
// timer can pick up new defaults.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Common errors.
var (
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNoPath         = errors.New("watcher: empty path")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnChange sets the callback invoked after the file settles.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on watcher errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithSiblings also reacts to files next to the watched one whose names are
// the watched base name plus one of suffixes, e.g. "-wal" for SQLite.
func WithSiblings(suffixes ...string) Option {
	return func(w *Watcher) {
		base := filepath.Base(w.path)
		for _, s := range suffixes {
			w.names[base+s] = struct{}{}
		}
	}
}

// Watcher monitors one file through its parent directory.
type Watcher struct {
	path     string
	names    map[string]struct{}
	debounce time.Duration
	onChange func()
	onError  func(error)

	fsWatcher *fsnotify.Watcher
	timer     *time.Timer
	cancel    context.CancelFunc
	started   bool
	mu        sync.Mutex
}

// New creates a watcher for path. It does not start watching.
func New(path string, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		names:    map[string]struct{}{filepath.Base(absPath): {}},
		debounce: DefaultDebounce,
		onChange: func() {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w, nil
}

// Start begins watching. The directory is watched rather than the file so
// atomic rename-over saves are still seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsWatcher = fsw
	w.cancel = cancel
	w.started = true

	go w.loop(ctx, fsw.Events, fsw.Errors)
	return nil
}

// Stop stops watching and drops any pending notification.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	w.fsWatcher.Close()
	w.fsWatcher = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.started = false
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if _, watched := w.names[filepath.Base(event.Name)]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.trigger(ctx)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.onChange()
	})
}
