package scene

import (
	"fmt"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

// Copier copies one component from an entity of a scene world to an entity
// of the host world.
type Copier func(src *ecs.World, se ecs.Entity, dst *ecs.World, de ecs.Entity) error

// Copy returns a Copier for kind. Values are copied shallowly.
func Copy[T any](kind component.ComponentKind[T]) Copier {
	return func(src *ecs.World, se ecs.Entity, dst *ecs.World, de ecs.Entity) error {
		v, ok := ecs.Get(src, se, kind)
		if !ok {
			return nil
		}
		cp := *v
		return ecs.Add(dst, de, kind, &cp)
	}
}

var baseCopiers = []Copier{
	Copy(component.NameComponent.Kind()),
	Copy(component.NodeComponent.Kind()),
	Copy(component.TransformComponent.Kind()),
	Copy(component.GlobalTransformComponent.Kind()),
	Copy(component.ExtrasComponent.Kind()),
}

// Spawn instantiates every entity of s into dst and marks each copy with a
// SceneMember carrying source. The base scene components are always copied;
// extra copies the kinds a host added while parsing.
func (s *Scene) Spawn(dst *ecs.World, source string, extra ...Copier) ([]ecs.Entity, error) {
	if s == nil || s.World == nil || dst == nil {
		return nil, nil
	}

	copiers := append(append([]Copier{}, baseCopiers...), extra...)
	src := ecs.Entities(s.World)
	out := make([]ecs.Entity, 0, len(src))
	for _, se := range src {
		de := ecs.CreateEntity(dst)
		for _, c := range copiers {
			if err := c(s.World, se, dst, de); err != nil {
				ecs.DestroyEntity(dst, de)
				for _, e := range out {
					ecs.DestroyEntity(dst, e)
				}
				return nil, fmt.Errorf("scene: spawn %s: %w", source, err)
			}
		}
		_ = ecs.Add(dst, de, component.SceneMemberComponent.Kind(), &component.SceneMember{Path: source})
		out = append(out, de)
	}
	return out, nil
}

// Members returns the entities of dst spawned from source.
func Members(dst *ecs.World, source string) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach(dst, component.SceneMemberComponent.Kind(), func(e ecs.Entity, m *component.SceneMember) {
		if m.Path == source {
			out = append(out, e)
		}
	})
	return out
}

// Despawn destroys every entity of dst spawned from source and returns how
// many were removed.
func Despawn(dst *ecs.World, source string) int {
	n := 0
	for _, e := range Members(dst, source) {
		if ecs.DestroyEntity(dst, e) {
			n++
		}
	}
	return n
}
