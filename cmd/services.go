package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tomato/internal/adapters/notification"
	"github.com/xvierd/tomato/internal/adapters/storage"
	"github.com/xvierd/tomato/internal/config"
	"github.com/xvierd/tomato/internal/ports"
	"github.com/xvierd/tomato/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	store    ports.KeyValueStore
	prefs    *services.PreferencesService
	notifier *notification.Notifier
	logFile  io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	if err := setupLogging(app.config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	log.Printf("tomato %s starting", Version)

	app.notifier = notification.New(&app.config.Notifications)

	backend := app.config.Storage.Backend
	if backendFlag != "" {
		backend = backendFlag
		app.config.Storage.Backend = backendFlag
	}

	app.store, err = openStore(backend)
	if err != nil {
		// Preferences are optional: the timer still runs on defaults.
		log.Printf("preference store unavailable, using memory: %v", err)
		app.store = storage.NewMapStore()
	}
	app.prefs = services.NewPreferencesService(app.store)

	return nil
}

func openStore(backend string) (ports.KeyValueStore, error) {
	if backend == storage.BackendMemory {
		return storage.Open(backend, "")
	}

	path := dbPath
	if path == "" {
		path = config.GetStorePath(app.config)
	}
	path, err := storage.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return storage.Open(backend, path)
}

// setupLogging sends the standard logger to a file when debugging and
// discards it otherwise; the full-screen view owns the terminal.
func setupLogging(cfg *config.Config) error {
	if !debugMode && os.Getenv("TOMATO_DEBUG") == "" {
		log.SetOutput(io.Discard)
		return nil
	}

	dir, err := storage.ExpandPath(cfg.Storage.DataDir)
	if err != nil {
		log.SetOutput(io.Discard)
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.SetOutput(io.Discard)
		return err
	}
	f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "tomato")
	if err != nil {
		log.SetOutput(io.Discard)
		return err
	}
	app.logFile = f
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.store != nil {
		err = app.store.Close()
		app.store = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
