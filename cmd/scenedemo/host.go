package main

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/asset"
	"github.com/milk9111/sceneextras/assets"
	"github.com/milk9111/sceneextras/config"
	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
	"github.com/milk9111/sceneextras/extras"
	"github.com/milk9111/sceneextras/physics"
	"github.com/milk9111/sceneextras/plugin"
	"github.com/milk9111/sceneextras/scene"
	"github.com/milk9111/sceneextras/script"
	"github.com/milk9111/sceneextras/tracker"
)

type sceneID string

const (
	projectileSize     = 0.2
	projectileLifetime = 4 * time.Second
)

type sceneStatus struct {
	ID      sceneID
	Path    string
	Handle  asset.Handle
	State   asset.LoadState
	Spawned int
}

// Host owns the world and every system of the demo. It does not depend on a
// window so it can run headless.
type Host struct {
	cfg     config.Config
	log     zerolog.Logger
	world   *ecs.World
	server  *asset.Server
	scenes  *plugin.Plugin[sceneID]
	reader  *ecs.Reader[tracker.Notification[sceneID]]
	sched   *ecs.Scheduler
	physics *physics.World
	runner  *script.Runner
	watcher *asset.Watcher

	status map[sceneID]*sceneStatus
	order  []sceneID
	ticks  int
}

// NewHost builds a host reading assets from cfg.AssetsDir layered over the
// embedded assets. reg may be nil.
func NewHost(cfg config.Config, log zerolog.Logger, reg prometheus.Registerer) (*Host, error) {
	return newHost(cfg, assets.FS(cfg.AssetsDir), log, reg)
}

func newHost(cfg config.Config, fsys fs.FS, log zerolog.Logger, reg prometheus.Registerer) (*Host, error) {
	metrics, err := tracker.NewMetrics(reg, "scenes")
	if err != nil {
		return nil, fmt.Errorf("scenedemo: metrics: %w", err)
	}

	server := asset.NewServer(asset.Options{FS: fsys, Logger: log})
	h := &Host{
		cfg:     cfg,
		log:     log,
		world:   ecs.NewWorld(),
		server:  server,
		scenes:  plugin.New[sceneID](server, tracker.WithLogger(log), tracker.WithMetrics(metrics)),
		physics: physics.NewWorld(cfg.Gravity),
		status:  make(map[sceneID]*sceneStatus),
	}
	h.reader = h.scenes.Reader()

	if cfg.Script != "" {
		if h.runner, err = script.Load(fsys, cfg.Script, nil, log); err != nil {
			return nil, err
		}
	}

	h.sched = ecs.NewScheduler(ecs.SystemFunc(h.drainReloads))
	h.scenes.Build(h.sched)
	h.sched.Add(ecs.SystemFunc(h.spawnScenes))
	h.sched.Add(ecs.SystemFunc(h.spawnProjectiles))
	h.sched.Add(ecs.SystemFunc(h.stepPhysics))
	h.sched.Add(ecs.SystemFunc(h.expire))

	for _, s := range cfg.Scenes {
		id := sceneID(s.ID)
		handle := h.scenes.Register(id, server.Load(s.Path))
		h.status[id] = &sceneStatus{ID: id, Path: s.Path, Handle: handle}
		h.order = append(h.order, id)
	}
	return h, nil
}

// WatchAssets starts hot reload of scene files under cfg.AssetsDir.
func (h *Host) WatchAssets() error {
	if h.cfg.AssetsDir == "" {
		return fmt.Errorf("scenedemo: hot reload needs assets_dir")
	}
	w, err := asset.NewWatcher(h.cfg.AssetsDir, "scenes")
	if err != nil {
		return fmt.Errorf("scenedemo: watch %s: %w", h.cfg.AssetsDir, err)
	}
	h.watcher = w
	h.log.Info().Str("dir", h.cfg.AssetsDir).Msg("watching scenes")
	return nil
}

func (h *Host) Close() error {
	var err error
	if h.watcher != nil {
		err = h.watcher.Close()
		h.watcher = nil
	}
	h.server.Wait()
	return err
}

// Update runs one tick of every system.
func (h *Host) Update() {
	h.ticks++
	h.sched.Update(h.world)
}

// Run ticks at cfg.TPS until ticks updates have run or ctx is done. ticks 0
// means until ctx is done.
func (h *Host) Run(ctx context.Context, ticks int) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.TPS))
	defer ticker.Stop()

	for n := 0; ticks == 0 || n < ticks; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Update()
		}
	}
	return nil
}

// Reload restarts the loads of file and re-registers every scene using it so
// its consumers are notified again.
func (h *Host) Reload(file string) int {
	handles := h.server.Reload(file)
	for _, handle := range handles {
		for _, id := range h.order {
			if h.status[id].Handle == handle {
				h.scenes.Register(id, handle)
			}
		}
	}
	return len(handles)
}

// ReloadAll reloads every configured scene.
func (h *Host) ReloadAll() {
	seen := map[string]bool{}
	for _, id := range h.order {
		file, ok := h.server.SourcePath(h.status[id].Handle)
		if !ok || seen[file] {
			continue
		}
		seen[file] = true
		h.Reload(file)
	}
}

// Status reports every configured scene in configuration order.
func (h *Host) Status() []sceneStatus {
	out := make([]sceneStatus, 0, len(h.order))
	for _, id := range h.order {
		st := *h.status[id]
		st.State = h.server.LoadState(st.Handle)
		out = append(out, st)
	}
	return out
}

func (h *Host) drainReloads(*ecs.World) {
	for h.watcher != nil {
		select {
		case file, ok := <-h.watcher.Events:
			if !ok {
				h.watcher = nil
				return
			}
			n := h.Reload(file)
			h.log.Info().Str("file", file).Int("handles", n).Msg("scene changed")
		case err, ok := <-h.watcher.Errors:
			if !ok {
				h.watcher = nil
				return
			}
			h.log.Warn().Err(err).Msg("scene watcher error")
		default:
			return
		}
	}
}

func (h *Host) spawnScenes(w *ecs.World) {
	plugin.ResolveAll(h.reader, h.server, func(v *extras.View[sceneID], err error) {
		if err != nil {
			h.log.Warn().Err(err).Msg("scene unavailable")
			return
		}
		if err := h.instantiate(w, v); err != nil {
			h.log.Error().Err(err).Str("scene", string(v.ID)).Msg("instantiate scene")
		}
	})
}

func (h *Host) extrasKey() string {
	if h.cfg.ExtrasKey == "" {
		return extras.DefaultKey
	}
	return h.cfg.ExtrasKey
}

// instantiate parses the scene's metadata into components and spawns a copy
// of it into w, replacing any copy of the same scene.
func (h *Host) instantiate(w *ecs.World, v *extras.View[sceneID]) error {
	if err := extras.ParseKey[objectData](v, h.extrasKey(), h.onObject); err != nil {
		return fmt.Errorf("parse %s: %w", v.ID, err)
	}
	if h.runner != nil {
		if err := extras.ParseKey(v, h.extrasKey(), h.runner.Callback()); err != nil {
			return fmt.Errorf("script %s: %w", v.ID, err)
		}
	}

	source := string(v.ID)
	for _, e := range scene.Members(w, source) {
		h.destroy(w, e)
	}

	spawned, err := v.Scene.Spawn(w, source,
		scene.Copy(component.SpawnerComponent.Kind()),
		scene.Copy(component.ColliderComponent.Kind()),
		scene.Copy(component.TagComponent.Kind()),
	)
	if err != nil {
		return err
	}
	for _, e := range spawned {
		h.attachCollider(w, e)
	}

	if st, ok := h.status[v.ID]; ok {
		st.Spawned = len(spawned)
	}
	h.log.Info().Str("scene", source).Int("entities", len(spawned)).Msg("scene spawned")
	return nil
}

func (h *Host) onObject(cmds *ecs.Commands, e ecs.Entity, name string, data *objectData, err error) {
	if err != nil {
		h.log.Warn().Err(err).Str("node", name).Msg("skipping scene object")
		return
	}
	if data == nil || data.sceneObject == nil {
		return
	}
	data.insert(cmds, e, h.cfg.TPS)
}

func (h *Host) attachCollider(w *ecs.World, e ecs.Entity) {
	c, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind())
	if !ok {
		return
	}
	if err := h.bindCollider(w, e, t.Transform, *c); err != nil {
		h.log.Warn().Err(err).Stringer("entity", e).Msg("collider skipped")
	}
}

// bindCollider adds a static body for c and records it on e. The body is
// taken out of the space again when e cannot hold it.
func (h *Host) bindCollider(w *ecs.World, e ecs.Entity, t component.Transform, c component.Collider) error {
	pb, err := h.physics.AddCollider(e, t, c)
	if err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb); err != nil {
		h.physics.Remove(pb)
		return fmt.Errorf("attach body to %s: %w", e, err)
	}
	return nil
}

func (h *Host) spawnProjectiles(w *ecs.World) {
	var cmds ecs.Commands
	ecs.ForEach2(w, component.SpawnerComponent.Kind(), component.GlobalTransformComponent.Kind(), func(_ ecs.Entity, s *component.Spawner, g *component.GlobalTransform) {
		s.Timer++
		if s.Interval <= 0 || s.Timer < s.Interval {
			return
		}
		s.Timer = 0

		x, y, z := g.X+s.SpawnPoint[0], g.Y+s.SpawnPoint[1], g.Z+s.SpawnPoint[2]
		speed := s.Speed
		cmds.Spawn(func(w *ecs.World, p ecs.Entity) error {
			t := component.IdentityTransform()
			t.X, t.Y, t.Z = x, y, z
			if err := ecs.Add(w, p, component.TransformComponent.Kind(), &t); err != nil {
				return err
			}
			if err := ecs.Add(w, p, component.ProjectileComponent.Kind(), &component.Projectile{Speed: speed}); err != nil {
				return err
			}
			frames := int(projectileLifetime.Seconds() * float64(h.cfg.TPS))
			if err := ecs.Add(w, p, component.TTLComponent.Kind(), &component.TTL{Frames: frames}); err != nil {
				return err
			}
			pb := h.physics.AddProjectile(p, x, y, projectileSize, cp.Vector{X: 0, Y: speed})
			return ecs.Add(w, p, component.PhysicsBodyComponent.Kind(), pb)
		})
	})
	if err := cmds.Apply(w); err != nil {
		h.log.Warn().Err(err).Msg("spawn projectiles")
	}
}

func (h *Host) stepPhysics(w *ecs.World) {
	h.physics.Step(1 / float64(h.cfg.TPS))

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Static || pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X, t.Y = pos.X, pos.Y
	})

	for _, e := range h.physics.Hits() {
		h.destroy(w, e)
	}
}

func (h *Host) expire(w *ecs.World) {
	var dead []ecs.Entity
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Frames--
		if ttl.Frames <= 0 {
			dead = append(dead, e)
		}
	})
	for _, e := range dead {
		h.destroy(w, e)
	}
}

func (h *Host) destroy(w *ecs.World, e ecs.Entity) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		h.physics.Remove(pb)
	}
	ecs.DestroyEntity(w, e)
}
