// Package tracker watches in-flight scene handles and reports each one
// exactly once when it reaches a terminal load state.
//
// The asset server offers no completion callbacks, only point-in-time state
// queries, so a Tracker is driven from the host's tick loop: call
// PollAndNotify once per tick. An entry is removed when it is reported, which
// is what keeps notifications at-most-once.
package tracker

import (
	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/asset"
)

// Oracle answers load state queries for handles.
type Oracle interface {
	LoadState(h asset.Handle) asset.LoadState
	SourcePath(h asset.Handle) (string, bool)
}

// Sink receives notifications. *ecs.Events satisfies it.
type Sink[Id any] interface {
	Send(Notification[Id])
}

// SinkFunc adapts a function to Sink.
type SinkFunc[Id any] func(Notification[Id])

func (f SinkFunc[Id]) Send(n Notification[Id]) {
	if f != nil {
		f(n)
	}
}

type entry[Id any] struct {
	id     Id
	handle asset.Handle
}

// Tracker holds the handles still waiting for a terminal state. Id is an
// opaque caller tag; it is carried through to notifications and never
// compared.
type Tracker[Id any] struct {
	entries []entry[Id]
	log     zerolog.Logger
	metrics *Metrics
}

type Option func(*options)

type options struct {
	log     zerolog.Logger
	metrics *Metrics
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func New[Id any](opts ...Option) *Tracker[Id] {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Tracker[Id]{log: o.log, metrics: o.metrics}
}

// Register starts tracking h under id and returns h. Registering the same
// handle again adds an independent entry with its own notification.
func (t *Tracker[Id]) Register(id Id, h asset.Handle) asset.Handle {
	t.entries = append(t.entries, entry[Id]{id: id, handle: h})
	t.metrics.setPending(len(t.entries))
	t.log.Debug().Stringer("handle", h).Int("pending", len(t.entries)).Msg("tracker: registered")
	return h
}

// IsIdle reports whether every registered handle has been resolved.
func (t *Tracker[Id]) IsIdle() bool {
	return len(t.entries) == 0
}

// Len returns the number of handles still tracked.
func (t *Tracker[Id]) Len() int {
	return len(t.entries)
}

// PollAndNotify queries every entry once, in registration order, and sends
// one notification per entry that reached Loaded or Failed. Entries whose
// asset was unloaded before resolving are dropped without a notification.
// Pending entries are kept for the next call, as are entries the sink
// registers while the call runs.
func (t *Tracker[Id]) PollAndNotify(oracle Oracle, sink Sink[Id]) {
	if len(t.entries) == 0 || oracle == nil {
		return
	}

	// sinks may Register while we iterate; those entries land in t.entries
	// and are kept after the survivors of this pass
	old := t.entries
	t.entries = nil
	kept := make([]entry[Id], 0, len(old))
	for _, ent := range old {
		state := oracle.LoadState(ent.handle)
		switch {
		case state.Pending():
			kept = append(kept, ent)
			continue
		case state == asset.Unloaded:
			t.metrics.resolved(outcomeDiscarded)
			t.log.Debug().Stringer("handle", ent.handle).Msg("tracker: dropped unloaded asset")
			continue
		}

		path, _ := oracle.SourcePath(ent.handle)
		switch state {
		case asset.Loaded:
			t.metrics.resolved(outcomeLoaded)
			t.log.Info().Stringer("handle", ent.handle).Str("path", path).Msg("tracker: scene ready")
			send(sink, Notification[Id]{Kind: Loaded, ID: ent.id, Handle: ent.handle, Path: path})
		case asset.Failed:
			t.metrics.resolved(outcomeFailed)
			t.log.Warn().Stringer("handle", ent.handle).Str("path", path).Msg("tracker: scene failed")
			send(sink, Notification[Id]{Kind: Failed, Path: path})
		default:
			t.log.Warn().Stringer("handle", ent.handle).Stringer("state", state).Msg("tracker: unknown load state")
			kept = append(kept, ent)
		}
	}

	t.entries = append(kept, t.entries...)
	t.metrics.setPending(len(t.entries))
}

func send[Id any](sink Sink[Id], n Notification[Id]) {
	if sink != nil {
		sink.Send(n)
	}
}
