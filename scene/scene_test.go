package scene

import (
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

const twoScenes = `{
	"asset": {"version": "2.0"},
	"scene": 1,
	"scenes": [
		{"name": "Empty", "nodes": []},
		{"name": "Level", "nodes": [0]}
	],
	"nodes": [
		{"name": "Root", "translation": [1, 2, 3], "children": [1, 2]},
		{"name": "Turret", "extras": {"bbu_object_data": {"speed": 0.5}}},
		{"children": []}
	]
}`

func decode(t *testing.T, src string) *gltf.Document {
	t.Helper()
	var doc gltf.Document
	if err := gltf.NewDecoder(strings.NewReader(src)).Decode(&doc); err != nil {
		t.Fatalf("decode gltf: %v", err)
	}
	return &doc
}

func TestFromGLTFDefaultScene(t *testing.T) {
	sc, err := FromGLTF(decode(t, twoScenes), -1)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if sc.Name != "Level" {
		t.Fatalf("expected default scene Level, got %q", sc.Name)
	}
	if sc.World.Len() != 3 {
		t.Fatalf("expected 3 entities, got %d", sc.World.Len())
	}

	byName := map[string]ecs.Entity{}
	ecs.ForEach(sc.World, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		byName[n.Value] = e
	})
	for _, name := range []string{"Root", "Turret", "Node2"} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("missing entity %q in %v", name, byName)
		}
	}

	root := byName["Root"]
	tr, ok := ecs.Get(sc.World, root, component.TransformComponent.Kind())
	if !ok || tr.X != 1 || tr.Y != 2 || tr.Z != 3 || tr.ScaleX != 1 {
		t.Fatalf("unexpected root transform %+v", tr)
	}
	if ecs.Has(sc.World, root, component.ExtrasComponent.Kind()) {
		t.Fatalf("root has no extras")
	}

	turret := byName["Turret"]
	node, _ := ecs.Get(sc.World, turret, component.NodeComponent.Kind())
	if node == nil || node.Index != 1 || node.Parent != 0 {
		t.Fatalf("unexpected node link %+v", node)
	}
	x, ok := ecs.Get(sc.World, turret, component.ExtrasComponent.Kind())
	if !ok || !strings.Contains(x.Value, `"bbu_object_data"`) || !strings.Contains(x.Value, `0.5`) {
		t.Fatalf("unexpected extras %+v", x)
	}
}

func TestFromGLTFErrors(t *testing.T) {
	doc := decode(t, twoScenes)
	if _, err := FromGLTF(doc, 5); err == nil {
		t.Fatalf("expected error for missing scene index")
	}
	if _, err := FromGLTF(nil, 0); err == nil {
		t.Fatalf("expected error for nil document")
	}

	cyclic := decode(t, `{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [0]}],
		"nodes": [{"name": "A", "children": [1]}, {"name": "B", "children": [0]}]
	}`)
	if _, err := FromGLTF(cyclic, 0); err == nil {
		t.Fatalf("expected error for a cyclic hierarchy")
	}
}

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		in      string
		file    string
		index   int
		wantErr bool
	}{
		{in: "scenes/a.glb", file: "scenes/a.glb", index: -1},
		{in: "scenes/a.glb#Scene0", file: "scenes/a.glb", index: 0},
		{in: "a.gltf#Scene12", file: "a.gltf", index: 12},
		{in: "a.gltf#Mesh0", wantErr: true},
		{in: "a.gltf#Scene", wantErr: true},
		{in: "a.gltf#Scene-1", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			file, idx, err := SplitLabel(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil || file != tc.file || idx != tc.index {
				t.Fatalf("got %q %d %v", file, idx, err)
			}
		})
	}
}
