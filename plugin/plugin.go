// Package plugin hooks a scene tracker into an ECS scheduler: each tick it
// rotates the notification queue and polls the asset server.
package plugin

import (
	"github.com/milk9111/sceneextras/asset"
	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/extras"
	"github.com/milk9111/sceneextras/tracker"
)

// Plugin owns the tracker and notification queue for one id type. It is
// meant to live as long as the host and be passed to whatever needs it.
type Plugin[Id any] struct {
	Tracker *tracker.Tracker[Id]
	Events  *ecs.Events[tracker.Notification[Id]]
	Oracle  tracker.Oracle
}

func New[Id any](oracle tracker.Oracle, opts ...tracker.Option) *Plugin[Id] {
	return &Plugin[Id]{
		Tracker: tracker.New[Id](opts...),
		Events:  &ecs.Events[tracker.Notification[Id]]{},
		Oracle:  oracle,
	}
}

// Build appends the event rotation and the poll system to s. Systems that
// consume notifications should be added after Build so they see events from
// the same tick.
func (p *Plugin[Id]) Build(s *ecs.Scheduler) {
	s.Add(ecs.SystemFunc(p.rotate))
	s.Add(ecs.SystemFunc(p.poll))
}

func (p *Plugin[Id]) rotate(*ecs.World) {
	p.Events.Update()
}

func (p *Plugin[Id]) poll(*ecs.World) {
	p.Tracker.PollAndNotify(p.Oracle, p.Events)
}

// Register tracks h under id.
func (p *Plugin[Id]) Register(id Id, h asset.Handle) asset.Handle {
	return p.Tracker.Register(id, h)
}

// Reader returns a new independent notification reader.
func (p *Plugin[Id]) Reader() *ecs.Reader[tracker.Notification[Id]] {
	return p.Events.NewReader()
}

// ResolveAll reads every pending notification from r and hands each resolved
// view, or the resolve error, to fn.
func ResolveAll[Id any](r *ecs.Reader[tracker.Notification[Id]], store tracker.SceneStore, fn func(*extras.View[Id], error)) {
	if fn == nil {
		return
	}
	for _, n := range r.Read() {
		fn(n.Resolve(store))
	}
}
