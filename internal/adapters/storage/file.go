package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/xvierd/tomato/internal/ports"
)

// FileStore implements ports.KeyValueStore as a flat TOML table. The file
// is re-read on every Get so edits made by other processes are visible.
type FileStore struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// Ensure FileStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*FileStore)(nil)

// NewFileStore returns a store backed by the TOML file at path. The file
// is created on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: resolved}, nil
}

// Get returns the value stored under key. A missing or unparsable file
// reads as empty.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ports.ErrStoreClosed
	}

	values := s.load()
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key and rewrites the file.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStoreClosed
	}

	values := s.load()
	values[key] = value
	return s.save(values)
}

// Delete removes key and rewrites the file.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStoreClosed
	}

	values := s.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Keys lists the stored keys in ascending order.
func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ports.ErrStoreClosed
	}

	values := s.load()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Path returns the TOML file location.
func (s *FileStore) Path() string {
	return s.path
}

// Close marks the store closed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) load() map[string]string {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}

	// Hand-edited files may hold numbers or booleans instead of strings.
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return values
	}
	for k, v := range raw {
		switch tv := v.(type) {
		case string:
			values[k] = tv
		case map[string]any, []any:
			continue
		default:
			values[k] = fmt.Sprint(tv)
		}
	}
	return values
}

func (s *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
