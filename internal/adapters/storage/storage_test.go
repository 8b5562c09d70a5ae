package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xvierd/tomato/internal/ports"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := store.Get(ctx, "absent")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || v != "" {
			t.Errorf("Get(absent) = %q, %v; want empty, false", v, ok)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := store.Set(ctx, "pomodoro-default-focus-min", "40"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := store.Get(ctx, "pomodoro-default-focus-min")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok || v != "40" {
			t.Errorf("Get() = %q, %v; want 40, true", v, ok)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := store.Set(ctx, "pomodoro-default-focus-min", "55"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, _, _ := store.Get(ctx, "pomodoro-default-focus-min")
		if v != "55" {
			t.Errorf("Get() after overwrite = %q, want 55", v)
		}
	})

	t.Run("keys sorted", func(t *testing.T) {
		if err := store.Set(ctx, "pomodoro-theme", "retro"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		keys, err := store.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		want := []string{"pomodoro-default-focus-min", "pomodoro-theme"}
		if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
			t.Errorf("Keys() = %v, want %v", keys, want)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "pomodoro-theme"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := store.Delete(ctx, "pomodoro-theme"); err != nil {
			t.Errorf("Delete() of missing key error = %v", err)
		}
		if _, ok, _ := store.Get(ctx, "pomodoro-theme"); ok {
			t.Error("key still present after Delete()")
		}
	})
}

func TestNewMemory(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Path() != "" {
		t.Errorf("Path() = %q, want empty for in-memory database", store.Path())
	}
	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if err := store.Set(ctx, "pomodoro-sound-on", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get(ctx, "pomodoro-sound-on")
	if err != nil || !ok || v != "false" {
		t.Errorf("Get() after reopen = %q, %v, %v; want false, true, nil", v, ok, err)
	}
	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.toml"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	exerciseStore(t, store)

	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("prefs file not written: %v", err)
	}
}

func TestFileStore_ReadsHandEditedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	content := "\"pomodoro-default-focus-min\" = 30\n\"pomodoro-sound-on\" = false\n\"pomodoro-theme\" = \"cherry\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	tests := map[string]string{
		"pomodoro-default-focus-min": "30",
		"pomodoro-sound-on":          "false",
		"pomodoro-theme":             "cherry",
	}
	for key, want := range tests {
		got, ok, err := store.Get(ctx, key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%s) = %q, %v, %v; want %q", key, got, ok, err, want)
		}
	}
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("this is = = not toml"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store, _ := NewFileStore(path)
	_, ok, err := store.Get(context.Background(), "pomodoro-theme")
	if err != nil || ok {
		t.Errorf("Get() on corrupt file = %v, %v; want false, nil", ok, err)
	}
}

func TestMapStore(t *testing.T) {
	store := NewMapStore()
	exerciseStore(t, store)

	_ = store.Close()
	if err := store.Set(context.Background(), "k", "v"); !errors.Is(err, ports.ErrStoreClosed) {
		t.Errorf("Set() after Close error = %v, want ErrStoreClosed", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{backend: BackendSQLite, path: filepath.Join(dir, "a.db")},
		{backend: BackendTOML, path: filepath.Join(dir, "a.toml")},
		{backend: BackendMemory},
		{backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(tt.backend, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Open() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			_ = store.Close()
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/.tomato/prefs.toml")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if want := filepath.Join(home, ".tomato", "prefs.toml"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Error("ExpandPath(blank) expected error")
	}
}
