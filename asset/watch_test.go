package asset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSceneFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "scenes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := NewWatcher(root, "scenes")
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(root, "scenes", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "scenes", "level.gltf"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != "scenes/level.gltf" {
			t.Fatalf("expected scenes/level.gltf, got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = w.Close()

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatalf("expected closed events channel")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("events channel not closed")
	}
}

func TestIsSceneFile(t *testing.T) {
	tests := map[string]bool{
		"a.gltf":      true,
		"b/C.GLB":     true,
		"a.yaml":      false,
		"scene.gltf~": false,
	}
	for in, want := range tests {
		if got := IsSceneFile(in); got != want {
			t.Fatalf("IsSceneFile(%q) = %v, want %v", in, got, want)
		}
	}
}
