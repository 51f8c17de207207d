package extras

import (
	"github.com/milk9111/sceneextras/asset"
	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
	"github.com/milk9111/sceneextras/scene"
)

// View is a loaded scene borrowed for one parse, tagged with the caller's id.
type View[Id any] struct {
	ID     Id
	Handle asset.Handle
	Scene  *scene.Scene
}

// Callback receives one metadata-bearing entity. data is nil when the entity
// has no payload; err is non-nil (wrapping ErrMalformed) when its blob could
// not be decoded. Mutations go through cmds and are applied after every
// entity has been visited.
type Callback[Data any] func(cmds *ecs.Commands, e ecs.Entity, name string, data *Data, err error)

// Parse runs cb for every entity of the view's scene that carries extras and
// then applies the queued commands in one batch. Only command failures are
// returned; decode failures are handed to cb.
func Parse[Data, Id any](v *View[Id], cb Callback[Data]) error {
	return ParseKey(v, DefaultKey, cb)
}

// ParseKey is Parse with a custom envelope key.
func ParseKey[Data, Id any](v *View[Id], key string, cb Callback[Data]) error {
	if v == nil || v.Scene == nil {
		return nil
	}
	return ParseWorld(v.Scene.World, key, cb)
}

type pending struct {
	entity ecs.Entity
	name   string
	blob   string
}

// ParseWorld is the world-level form of Parse.
func ParseWorld[Data any](w *ecs.World, key string, cb Callback[Data]) error {
	if w == nil || cb == nil {
		return nil
	}

	var items []pending
	ecs.ForEach(w, component.ExtrasComponent.Kind(), func(e ecs.Entity, x *component.Extras) {
		item := pending{entity: e, blob: x.Value}
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
			item.name = n.Value
		}
		items = append(items, item)
	})

	var cmds ecs.Commands
	for _, item := range items {
		data, err := DecodeKey[Data](item.blob, key)
		cb(&cmds, item.entity, item.name, data, err)
	}
	return cmds.Apply(w)
}
