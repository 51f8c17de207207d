package component

// Spawner periodically emits projectiles from SpawnPoint, relative to the
// owner's transform.
type Spawner struct {
	SpawnPoint [3]float64
	Speed      float64
	// Interval between spawns, in update ticks.
	Interval int
	Timer    int
}

var SpawnerComponent = NewComponent[Spawner]()

// Projectile moves straight up at Speed units per second.
type Projectile struct {
	Speed float64
}

var ProjectileComponent = NewComponent[Projectile]()
