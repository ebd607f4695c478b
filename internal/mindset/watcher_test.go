package mindset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	go w.Run(reg)

	content := "model('fresh') {\n  priority: 1\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "a.jellyfish"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := reg.Models["fresh"]; ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the registry after a file write within the deadline")
}

func TestWatcherIgnoresNonJellyfishFiles(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	go w.Run(reg)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("irrelevant"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if len(reg.Models) != 0 {
		t.Errorf("len(reg.Models) = %d, want 0 (non-.jellyfish write should be ignored)", len(reg.Models))
	}
}
