// Package ports defines the interfaces (driven and driving ports)
// for the tomato application following hexagonal architecture principles.
// These interfaces define the contracts between the timer core and
// external infrastructure.
package ports

import (
	"context"
	"errors"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("preference store closed")

// KeyValueStore defines string-valued preference persistence.
// This is a driven port (implemented by adapters).
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Path returns the backing file, or "" for in-memory stores.
	Path() string

	// Close releases underlying resources.
	Close() error
}

// DurationSource supplies the mode defaults the timer engine falls back to.
// This is a driven port (implemented by the preferences service).
type DurationSource interface {
	// FocusDurationSeconds returns the configured focus length.
	FocusDurationSeconds() int

	// BreakDurationSeconds returns the configured break length.
	BreakDurationSeconds() int

	// SoundEnabled reports whether the transition chime should play.
	SoundEnabled() bool
}
