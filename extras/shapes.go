package extras

import "github.com/milk9111/sceneextras/ecs/component"

// Vec3 is encoded as a three element array, already converted to Y-up by the
// exporter.
type Vec3 [3]float64

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

type CuboidData struct {
	Cuboid Vec3 `json:"cuboid"`
	Offset Vec3 `json:"offset"`
}

type SphereData struct {
	Radius float64 `json:"radius"`
	Offset Vec3    `json:"offset"`
}

type CapsuleData struct {
	Radius   float64 `json:"radius"`
	Height   float64 `json:"height"`
	Offset   Vec3    `json:"offset"`
	UpVector Vec3    `json:"up_vector"`
}

func (d CuboidData) Collider() component.Collider {
	return component.Collider{Shape: component.ColliderCuboid, HalfExtents: d.Cuboid, Offset: d.Offset}
}

func (d SphereData) Collider() component.Collider {
	return component.Collider{Shape: component.ColliderSphere, Radius: d.Radius, Offset: d.Offset}
}

func (d CapsuleData) Collider() component.Collider {
	up := d.UpVector
	if up == (Vec3{}) {
		up = Vec3{0, 1, 0}
	}
	return component.Collider{
		Shape:  component.ColliderCapsule,
		Radius: d.Radius,
		Height: d.Height,
		Offset: d.Offset,
		Up:     up,
	}
}
