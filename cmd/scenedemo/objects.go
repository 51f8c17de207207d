package main

import (
	"encoding/json"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
	"github.com/milk9111/sceneextras/extras"
)

// sceneObject is one variant of the metadata authored on scene nodes, keyed
// by its "id" field:
//
//	{"id": "shooting_square", "spawn_point": [0, 1, 0], "speed": 0.75}
type sceneObject interface {
	insert(cmds *ecs.Commands, e ecs.Entity, tps int)
}

type shootingSquare struct {
	SpawnPoint extras.Vec3 `json:"spawn_point"`
	Speed      float64     `json:"speed"`
}

func (s *shootingSquare) insert(cmds *ecs.Commands, e ecs.Entity, tps int) {
	ecs.Insert(cmds, e, component.SpawnerComponent.Kind(), &component.Spawner{
		SpawnPoint: s.SpawnPoint,
		Speed:      s.Speed,
		Interval:   tps,
	})
}

type cuboidCollider struct{ extras.CuboidData }

func (c *cuboidCollider) insert(cmds *ecs.Commands, e ecs.Entity, _ int) {
	col := c.Collider()
	ecs.Insert(cmds, e, component.ColliderComponent.Kind(), &col)
}

type sphereCollider struct{ extras.SphereData }

func (c *sphereCollider) insert(cmds *ecs.Commands, e ecs.Entity, _ int) {
	col := c.Collider()
	ecs.Insert(cmds, e, component.ColliderComponent.Kind(), &col)
}

type capsuleCollider struct{ extras.CapsuleData }

func (c *capsuleCollider) insert(cmds *ecs.Commands, e ecs.Entity, _ int) {
	col := c.Collider()
	ecs.Insert(cmds, e, component.ColliderComponent.Kind(), &col)
}

var sceneObjects = extras.Variants[sceneObject]{
	Key: "id",
	New: map[string]func() sceneObject{
		"shooting_square":  func() sceneObject { return &shootingSquare{} },
		"cuboid_collider":  func() sceneObject { return &cuboidCollider{} },
		"sphere_collider":  func() sceneObject { return &sphereCollider{} },
		"capsule_collider": func() sceneObject { return &capsuleCollider{} },
	},
}

// objectData is the payload type handed to extras.Parse.
type objectData struct {
	sceneObject
}

func (o *objectData) UnmarshalJSON(raw []byte) error {
	v, err := sceneObjects.Decode(raw)
	if err != nil {
		return err
	}
	o.sceneObject = v
	return nil
}

func (o objectData) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.sceneObject)
}
