package tracker

import (
	"errors"
	"fmt"

	"github.com/milk9111/sceneextras/asset"
	"github.com/milk9111/sceneextras/extras"
	"github.com/milk9111/sceneextras/scene"
)

type Kind int

const (
	Loaded Kind = iota + 1
	Failed
)

func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Notification reports one tracked handle reaching a terminal state. Failed
// notifications carry only the path. Path is empty when the server could not
// name the source.
type Notification[Id any] struct {
	Kind   Kind
	ID     Id
	Handle asset.Handle
	Path   string
}

// SceneStore resolves handles to loaded scenes.
type SceneStore interface {
	Scene(h asset.Handle) (*scene.Scene, bool)
}

var (
	ErrAssetLoadFailed = errors.New("asset failed to load")
	ErrSceneMissing    = errors.New("scene doesn't exist")
)

// ResolveError explains why a notification could not become a view.
type ResolveError struct {
	// Err is ErrAssetLoadFailed or ErrSceneMissing.
	Err  error
	Path string
}

func (e *ResolveError) Error() string {
	if e.Path == "" {
		return e.Err.Error() + ": path unknown"
	}
	return fmt.Sprintf("%s: path `%s`", e.Err, e.Path)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// PathKnown reports whether the failing asset's path was available.
func (e *ResolveError) PathKnown() bool {
	return e.Path != ""
}

// Resolve turns a Loaded notification into a view over its scene. Failed
// notifications and scenes evicted since the notification was sent come back
// as *ResolveError.
func (n Notification[Id]) Resolve(store SceneStore) (*extras.View[Id], error) {
	if n.Kind != Loaded {
		return nil, &ResolveError{Err: ErrAssetLoadFailed, Path: n.Path}
	}
	if store == nil {
		return nil, &ResolveError{Err: ErrSceneMissing, Path: n.Path}
	}
	sc, ok := store.Scene(n.Handle)
	if !ok || sc == nil {
		return nil, &ResolveError{Err: ErrSceneMissing, Path: n.Path}
	}
	return &extras.View[Id]{ID: n.ID, Handle: n.Handle, Scene: sc}, nil
}
