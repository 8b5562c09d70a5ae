package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err != ErrNoPath {
		t.Errorf("New(\"\") error = %v, want %v", err, ErrNoPath)
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")
	if err := os.WriteFile(path, []byte("a = \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	w, err := New(path,
		WithDebounce(30*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("a = \"2\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool { return changes.Load() >= 1 }) {
		t.Fatal("expected onChange after write")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tomato.db")

	var changes atomic.Int32
	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if n := changes.Load(); n != 0 {
		t.Errorf("expected no change callbacks, got %d", n)
	}
}

func TestWatcher_Siblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tomato.db")

	var changes atomic.Int32
	w, err := New(path,
		WithSiblings("-wal"),
		WithDebounce(20*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path+"-wal", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { return changes.Load() >= 1 }) {
		t.Fatal("expected onChange for -wal sibling")
	}
}

func TestWatcher_DoubleStart(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start() error = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.Stop()
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	w.Stop()
	w.Stop()
}
