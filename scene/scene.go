// Package scene turns imported glTF documents into ECS worlds. Each node
// reachable from the selected glTF scene becomes one entity carrying its
// name, local and global transforms, node link and, when present, the raw
// extras blob.
package scene

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

// Scene is one loaded scene and the entity graph built from it.
type Scene struct {
	Path  string
	Name  string
	World *ecs.World
}

// SplitLabel separates a Bevy style "file.glb#Scene1" asset path into the
// file path and the scene index. A missing label selects -1, the document's
// default scene.
func SplitLabel(path string) (string, int, error) {
	file, label, ok := strings.Cut(path, "#")
	if !ok {
		return path, -1, nil
	}
	digits, ok := strings.CutPrefix(label, "Scene")
	if !ok {
		return "", 0, fmt.Errorf("scene: unsupported label %q", label)
	}
	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("scene: bad scene index in label %q", label)
	}
	return file, idx, nil
}

// FromGLTF builds the entity graph for scene index of doc. index -1 picks
// doc.Scene, falling back to the first scene.
func FromGLTF(doc *gltf.Document, index int) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("scene: nil document")
	}
	if index < 0 {
		index = 0
		if doc.Scene != nil {
			index = *doc.Scene
		}
	}
	if index >= len(doc.Scenes) || doc.Scenes[index] == nil {
		return nil, fmt.Errorf("scene: document has no scene %d", index)
	}

	src := doc.Scenes[index]
	b := builder{doc: doc, world: ecs.NewWorld(), seen: map[int]bool{}}
	for _, root := range src.Nodes {
		if err := b.node(root, -1, component.IdentityTransform()); err != nil {
			return nil, err
		}
	}
	return &Scene{Name: src.Name, World: b.world}, nil
}

type builder struct {
	doc   *gltf.Document
	world *ecs.World
	seen  map[int]bool
}

func (b *builder) node(idx, parent int, parentGlobal component.Transform) error {
	if idx < 0 || idx >= len(b.doc.Nodes) || b.doc.Nodes[idx] == nil {
		return fmt.Errorf("scene: node %d out of range", idx)
	}
	if b.seen[idx] {
		return fmt.Errorf("scene: node %d appears twice in the hierarchy", idx)
	}
	b.seen[idx] = true

	n := b.doc.Nodes[idx]
	e := ecs.CreateEntity(b.world)

	name := n.Name
	if name == "" {
		name = "Node" + strconv.Itoa(idx)
	}
	_ = ecs.Add(b.world, e, component.NameComponent.Kind(), &component.Name{Value: name})
	_ = ecs.Add(b.world, e, component.NodeComponent.Kind(), &component.Node{Index: idx, Parent: parent})

	t := component.Transform{
		X:        float64(n.Translation[0]),
		Y:        float64(n.Translation[1]),
		Z:        float64(n.Translation[2]),
		ScaleX:   float64(n.Scale[0]),
		ScaleY:   float64(n.Scale[1]),
		ScaleZ:   float64(n.Scale[2]),
		Rotation: [4]float64{float64(n.Rotation[0]), float64(n.Rotation[1]), float64(n.Rotation[2]), float64(n.Rotation[3])},
	}
	_ = ecs.Add(b.world, e, component.TransformComponent.Kind(), &t)
	global := Compose(parentGlobal, t)
	_ = ecs.Add(b.world, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Transform: global})

	if n.Extras != nil {
		raw, err := extrasText(n.Extras)
		if err != nil {
			return fmt.Errorf("scene: node %d extras: %w", idx, err)
		}
		_ = ecs.Add(b.world, e, component.ExtrasComponent.Kind(), &component.Extras{Value: raw})
	}

	for _, child := range n.Children {
		if err := b.node(child, idx, global); err != nil {
			return err
		}
	}
	return nil
}

// extrasText re-encodes decoded extras to JSON text; raw messages pass
// through untouched.
func extrasText(v any) (string, error) {
	switch x := v.(type) {
	case json.RawMessage:
		return string(x), nil
	case []byte:
		return string(x), nil
	case string:
		b, err := json.Marshal(x)
		return string(b), err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
