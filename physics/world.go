// Package physics projects scene colliders onto a 2D Chipmunk space in the
// scene's XY plane.
package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeProjectile
)

// World owns the Chipmunk space and maps shapes back to entities.
type World struct {
	space         *cp.Space
	shapeToEntity map[*cp.Shape]ecs.Entity
	hits          []ecs.Entity
}

// NewWorld creates a space with the given downward gravity.
func NewWorld(gravity float64) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: -gravity})

	pw := &World{
		space:         space,
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *World) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// ShapeCount returns the number of shapes owned by entities.
func (pw *World) ShapeCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.shapeToEntity)
}

// Entity returns the entity that owns shape.
func (pw *World) Entity(shape *cp.Shape) (ecs.Entity, bool) {
	e, ok := pw.shapeToEntity[shape]
	return e, ok
}

// AddCollider builds a static body for c at the node's position.
func (pw *World) AddCollider(e ecs.Entity, t component.Transform, c component.Collider) (*component.PhysicsBody, error) {
	if pw == nil || pw.space == nil {
		return nil, fmt.Errorf("physics: no space")
	}

	body := cp.NewStaticBody()
	body.SetPosition(cp.Vector{X: t.X + c.Offset[0], Y: t.Y + c.Offset[1]})

	var shape *cp.Shape
	switch c.Shape {
	case component.ColliderCuboid:
		w := 2 * c.HalfExtents[0] * scaleOr1(t.ScaleX)
		h := 2 * c.HalfExtents[1] * scaleOr1(t.ScaleY)
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("physics: cuboid on %s has no area", e)
		}
		shape = cp.NewBox(body, w, h, 0)
	case component.ColliderSphere:
		if c.Radius <= 0 {
			return nil, fmt.Errorf("physics: sphere on %s has no radius", e)
		}
		shape = cp.NewCircle(body, c.Radius, cp.Vector{})
	case component.ColliderCapsule:
		if c.Radius <= 0 {
			return nil, fmt.Errorf("physics: capsule on %s has no radius", e)
		}
		shape = capsule(body, c)
	default:
		return nil, fmt.Errorf("physics: unknown collider shape %q", c.Shape)
	}

	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e

	return &component.PhysicsBody{Body: body, Shape: shape, Static: true}, nil
}

// capsule projects the capsule axis onto XY. An axis pointing along Z shows
// up as a circle.
func capsule(body *cp.Body, c component.Collider) *cp.Shape {
	half := math.Max(c.Height-c.Radius, 0)
	axis := cp.Vector{X: c.Up[0], Y: c.Up[1]}
	if axis.Length() < 1e-6 || half == 0 {
		return cp.NewCircle(body, c.Radius, cp.Vector{})
	}
	axis = axis.Normalize().Mult(half)
	return cp.NewSegment(body, axis.Neg(), axis, c.Radius)
}

func scaleOr1(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// AddProjectile creates a gravity-free sensor box moving at vel.
func (pw *World) AddProjectile(e ecs.Entity, x, y, size float64, vel cp.Vector) *component.PhysicsBody {
	body := cp.NewBody(1, cp.MomentForBox(1, size, size))
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetVelocityVector(vel)
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
	})

	shape := cp.NewBox(body, size, size, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeProjectile)

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.shapeToEntity[shape] = e
	return &component.PhysicsBody{Body: body, Shape: shape}
}

// Remove takes a body and its shape out of the space.
func (pw *World) Remove(pb *component.PhysicsBody) {
	if pw == nil || pb == nil {
		return
	}
	if pb.Shape != nil {
		delete(pw.shapeToEntity, pb.Shape)
		pw.space.RemoveShape(pb.Shape)
	}
	if pb.Body != nil {
		pw.space.RemoveBody(pb.Body)
	}
}

// Step advances the simulation.
func (pw *World) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// Hits returns projectiles that touched a solid since the last call.
func (pw *World) Hits() []ecs.Entity {
	if pw == nil {
		return nil
	}
	out := pw.hits
	pw.hits = nil
	return out
}

func (pw *World) setupHandlers() {
	handler := pw.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeSolid)
	handler.UserData = pw
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, _ := arb.Shapes()
		if e, ok := world.shapeToEntity[shapeA]; ok {
			world.hits = append(world.hits, e)
		}
		return true
	}
}
