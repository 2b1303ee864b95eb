package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "model.yaml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte("objects: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, 20*time.Millisecond, func(path string) {
			changed <- path
		})
	}()

	// Keep writing until the watcher is up and reports the change.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var got string
loop:
	for {
		select {
		case got = <-changed:
			break loop
		case <-tick.C:
			_ = os.WriteFile(other, []byte("x"), 0o644)
			_ = os.WriteFile(watched, []byte("objects: []\n"), 0o644)
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}
	if got != watched {
		t.Errorf("changed path = %q, want %q", got, watched)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchFiles returned %v after cancel", err)
	}
}

func TestWatchFilesMissingDir(t *testing.T) {
	err := watchFiles(context.Background(), []string{"/nonexistent/dir/model.yaml"}, time.Millisecond, func(string) {})
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
