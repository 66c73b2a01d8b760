package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherPicksUpPDFs(t *testing.T) {
	dir := t.TempDir()
	picked := make(chan string, 4)

	w := New(dir, nil, func(path string) {
		picked <- filepath.Base(path)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "claim.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-picked:
		if name != "claim.pdf" {
			t.Errorf("got %s", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("PDF was not picked up")
	}

	// The .txt file must never come through.
	select {
	case name := <-picked:
		t.Errorf("unexpected pickup: %s", name)
	case <-time.After(time.Second):
	}
}

func TestWatcherHandsOffEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	picked := make(chan string, 4)

	w := New(dir, nil, func(path string) {
		picked <- filepath.Base(path)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "claim.pdf")
	if err := os.WriteFile(path, []byte("%PDF v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-picked:
	case <-time.After(3 * time.Second):
		t.Fatal("PDF was not picked up")
	}

	// A later write to the already-processed file must not re-enqueue it.
	if err := os.WriteFile(path, []byte("%PDF v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-picked:
		t.Errorf("file handed off twice: %s", name)
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	w := New(t.TempDir(), nil, func(string) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "ghost"), nil, func(string) {})
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
