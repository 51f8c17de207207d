package asset

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/qmuntal/gltf"

	"github.com/milk9111/sceneextras/scene"
)

// Loader turns one file into a scene. label selects a scene inside the file,
// -1 for the file's default.
type Loader interface {
	Load(fsys fs.FS, path string, label int) (*scene.Scene, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(fsys fs.FS, path string, label int) (*scene.Scene, error)

func (f LoaderFunc) Load(fsys fs.FS, path string, label int) (*scene.Scene, error) {
	return f(fsys, path, label)
}

// GLTFLoader reads .gltf and .glb files. Only the node hierarchy is used, so
// buffers and images are never resolved.
type GLTFLoader struct{}

func (GLTFLoader) Load(fsys fs.FS, path string, label int) (*scene.Scene, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("gltf: read %s: %w", path, err)
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("gltf: decode %s: %w", path, err)
	}

	sc, err := scene.FromGLTF(&doc, label)
	if err != nil {
		return nil, fmt.Errorf("gltf: %s: %w", path, err)
	}
	sc.Path = path
	return sc, nil
}
