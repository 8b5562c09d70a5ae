package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xvierd/tomato/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendTOML   = "toml"
	BackendMemory = "memory"
)

// MapStore is a process-local ports.KeyValueStore. It is the fallback
// when no persistent store can be opened.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// Ensure MapStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*MapStore)(nil)

// NewMapStore creates an empty in-memory store.
func NewMapStore() *MapStore {
	return &MapStore{values: map[string]string{}}
}

// Get returns the value stored under key.
func (s *MapStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ports.ErrStoreClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MapStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStoreClosed
	}
	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *MapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStoreClosed
	}
	delete(s.values, key)
	return nil
}

// Keys lists the stored keys in ascending order.
func (s *MapStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStoreClosed
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns "" since nothing is persisted.
func (s *MapStore) Path() string { return "" }

// Close marks the store closed.
func (s *MapStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Open returns the store for the named backend at path.
func Open(backend, path string) (ports.KeyValueStore, error) {
	switch backend {
	case BackendSQLite, "":
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendTOML:
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMapStore(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q: must be one of sqlite, toml, memory", backend)
}
