package scene

import "github.com/milk9111/sceneextras/ecs/component"

// Compose returns child expressed in parent's space. Scale is combined per
// axis, which is exact as long as no ancestor mixes rotation with
// non-uniform scale.
func Compose(parent, child component.Transform) component.Transform {
	scaled := [3]float64{child.X * parent.ScaleX, child.Y * parent.ScaleY, child.Z * parent.ScaleZ}
	r := rotate(parent.Rotation, scaled)
	return component.Transform{
		X:        parent.X + r[0],
		Y:        parent.Y + r[1],
		Z:        parent.Z + r[2],
		ScaleX:   parent.ScaleX * child.ScaleX,
		ScaleY:   parent.ScaleY * child.ScaleY,
		ScaleZ:   parent.ScaleZ * child.ScaleZ,
		Rotation: quatMul(parent.Rotation, child.Rotation),
	}
}

// rotate applies the unit quaternion q (x, y, z, w) to v.
func rotate(q [4]float64, v [3]float64) [3]float64 {
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]
	// t = 2 * cross(q.xyz, v)
	tx := 2 * (qy*v[2] - qz*v[1])
	ty := 2 * (qz*v[0] - qx*v[2])
	tz := 2 * (qx*v[1] - qy*v[0])
	return [3]float64{
		v[0] + qw*tx + (qy*tz - qz*ty),
		v[1] + qw*ty + (qz*tx - qx*tz),
		v[2] + qw*tz + (qx*ty - qy*tx),
	}
}

func quatMul(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}
