package scene

import (
	"math"
	"testing"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompose(t *testing.T) {
	s := math.Sqrt2 / 2
	tests := []struct {
		name    string
		parent  component.Transform
		child   component.Transform
		x, y, z float64
	}{
		{
			name:   "translate",
			parent: component.Transform{X: 1, Y: 2, Z: 3, ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}},
			child:  component.Transform{X: 1, ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}},
			x:      2, y: 2, z: 3,
		},
		{
			name:   "scale",
			parent: component.Transform{ScaleX: 2, ScaleY: 3, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}},
			child:  component.Transform{X: 1, Y: 1, ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}},
			x:      2, y: 3,
		},
		{
			name:   "rotate_z_90",
			parent: component.Transform{ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, s, s}},
			child:  component.Transform{X: 1, ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}},
			y:      1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.parent, tc.child)
			if !near(got.X, tc.x) || !near(got.Y, tc.y) || !near(got.Z, tc.z) {
				t.Fatalf("position = (%v, %v, %v), want (%v, %v, %v)", got.X, got.Y, got.Z, tc.x, tc.y, tc.z)
			}
			if !near(got.ScaleX, tc.parent.ScaleX) {
				t.Fatalf("scale = %v, want %v", got.ScaleX, tc.parent.ScaleX)
			}
		})
	}
}

func TestGlobalTransformFollowsParents(t *testing.T) {
	sc, err := FromGLTF(decode(t, twoScenes), -1)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	ecs.ForEach2(sc.World, component.NameComponent.Kind(), component.GlobalTransformComponent.Kind(), func(_ ecs.Entity, n *component.Name, g *component.GlobalTransform) {
		if n.Value == "Turret" && (g.X != 1 || g.Y != 2 || g.Z != 3) {
			t.Fatalf("turret global position = (%v, %v, %v), want (1, 2, 3)", g.X, g.Y, g.Z)
		}
	})
}
