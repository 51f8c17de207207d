package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for an entity. Static bodies
// come from scene colliders, dynamic ones from spawned projectiles.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
