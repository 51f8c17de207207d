package component

// Transform is a node's local transform. Rotation is a quaternion in x, y,
// z, w order.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	ScaleZ   float64
	Rotation [4]float64
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, ScaleZ: 1, Rotation: [4]float64{0, 0, 0, 1}}
}

var TransformComponent = NewComponent[Transform]()

// GlobalTransform is a node's transform composed with every ancestor's.
type GlobalTransform struct {
	Transform
}

var GlobalTransformComponent = NewComponent[GlobalTransform]()
