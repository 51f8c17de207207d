package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedAssets(t *testing.T) {
	for _, p := range []string{"scenes/shooting_squares.gltf", "assets/scripts/tags.tengo"} {
		if _, err := LoadFile(p); err != nil {
			t.Fatalf("load %s: %v", p, err)
		}
	}
}

func TestOverlayPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scenes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenes", "shooting_squares.gltf"), []byte("disk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fsys := FS(dir)
	b, err := fs.ReadFile(fsys, "scenes/shooting_squares.gltf")
	if err != nil || string(b) != "disk" {
		t.Fatalf("expected disk copy, got %q, %v", b, err)
	}
	if _, err := fs.ReadFile(fsys, "scripts/tags.tengo"); err != nil {
		t.Fatalf("expected embedded fallback: %v", err)
	}
	if _, err := fs.ReadFile(fsys, "scenes/missing.gltf"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestCleanAssetPath(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"assets/scenes/a.gltf":      "scenes/a.gltf",
		"scenes/a.gltf":             "scenes/a.gltf",
		"/home/u/x/assets/s/a.gltf": "s/a.gltf",
	}
	for in, want := range tests {
		if got := cleanAssetPath(in); got != want {
			t.Fatalf("cleanAssetPath(%q) = %q, want %q", in, got, want)
		}
	}
}
