// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := New(Config{}); !errors.Is(err, ErrNoFiles) {
		t.Errorf("New(no files) error = %v, want ErrNoFiles", err)
	}
	if _, err := New(Config{Files: []string{filepath.Join(dir, "missing.data")}}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New(missing) error = %v, want ErrNotExist", err)
	}
	if _, err := New(Config{Files: []string{dir}}); err == nil {
		t.Error("New(directory) expected error")
	}
}

func TestWatcherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := filepath.Join(dir, "b.data")
	a := filepath.Join(dir, "a.data")
	writeFile(t, a, "")
	writeFile(t, b, "")

	w, err := New(Config{Files: []string{b, a, a}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { w.fsw.Close() })

	if diff := cmp.Diff([]string{a, b}, w.Files()); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "pkg.data")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, watched, "%Files\n")

	var (
		mu    sync.Mutex
		calls int
		got   []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Files:    []string{watched},
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			got = changed
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for i := range 3 {
		writeFile(t, watched, "%Files\n"+string(rune('a'+i))+"\n")
		writeFile(t, other, "noise")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	// Give a second callback a chance to show up before asserting on the count.
	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("OnChange calls = %d, want 1", calls)
	}
	if diff := cmp.Diff([]string{watched}, got); diff != "" {
		t.Errorf("changed mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "pkg.data")
	writeFile(t, watched, "")

	var stdout bytes.Buffer
	done := make(chan struct{})
	w, err := New(Config{
		Files:       []string{watched},
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &stdout,
		OnChange: func(context.Context, []string) error {
			close(done)
			return errors.New("evaluation failed")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	writeFile(t, watched, "%Files\n")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stdout.String() != "\033[2J\033[H" {
		t.Errorf("stdout = %q, want clear sequence", stdout.String())
	}
}

func TestWatcherRunTwice(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "pkg.data")
	writeFile(t, watched, "")

	w, err := New(Config{Files: []string{watched}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if err := w.Run(ctx); err == nil {
		t.Error("second Run() expected error")
	}
}

func TestRelevant(t *testing.T) {
	t.Parallel()

	w := &Watcher{files: map[string]struct{}{"/data/pkg.data": {}}}

	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/data/pkg.data", Op: fsnotify.Write}, true},
		{"rename into place", fsnotify.Event{Name: "/data/pkg.data", Op: fsnotify.Create}, true},
		{"unclean path", fsnotify.Event{Name: "/data/./pkg.data", Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: "/data/pkg.data", Op: fsnotify.Chmod}, false},
		{"sibling", fsnotify.Event{Name: "/data/pkg.data.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := w.relevant(tt.evt); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.evt, got, tt.want)
			}
		})
	}
}

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	if isFatalFsnotifyError(errors.New("transient")) {
		t.Error("plain error classified as fatal")
	}
	if isFatalFsnotifyError(nil) {
		t.Error("nil classified as fatal")
	}
}
