package component

type ColliderShape string

const (
	ColliderCuboid  ColliderShape = "cuboid"
	ColliderSphere  ColliderShape = "sphere"
	ColliderCapsule ColliderShape = "capsule"
)

// Collider describes a collision volume authored as node metadata, in scene
// units. Offset is relative to the owning node. For capsules Height is the
// half height including the caps and Up is the capsule axis.
type Collider struct {
	Shape       ColliderShape
	HalfExtents [3]float64
	Radius      float64
	Height      float64
	Offset      [3]float64
	Up          [3]float64
}

var ColliderComponent = NewComponent[Collider]()
