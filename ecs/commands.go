package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/sceneextras/ecs/component"
)

// Command is a deferred world mutation.
type Command func(w *World) error

// Commands records world mutations while a query walks the world and applies
// them afterwards in one pass, in the order they were queued.
type Commands struct {
	queue []Command
}

// Push queues a raw command.
func (c *Commands) Push(cmd Command) {
	if c == nil || cmd == nil {
		return
	}
	c.queue = append(c.queue, cmd)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return len(c.queue)
}

// Append moves every command of other to the end of c, leaving other empty.
func (c *Commands) Append(other *Commands) {
	if c == nil || other == nil {
		return
	}
	c.queue = append(c.queue, other.queue...)
	other.queue = nil
}

// Spawn queues the creation of a new entity. build runs at apply time with
// the freshly created entity; a build error destroys it again.
func (c *Commands) Spawn(build func(w *World, e Entity) error) {
	c.Push(func(w *World) error {
		e := CreateEntity(w)
		if build == nil {
			return nil
		}
		if err := build(w, e); err != nil {
			DestroyEntity(w, e)
			return fmt.Errorf("spawn: %w", err)
		}
		return nil
	})
}

// Despawn queues the destruction of e.
func (c *Commands) Despawn(e Entity) {
	c.Push(func(w *World) error {
		if !DestroyEntity(w, e) {
			return fmt.Errorf("despawn %s: %w", e, component.ErrEntityNotAlive)
		}
		return nil
	})
}

// Apply runs every queued command against w and clears the queue. A failing
// command does not stop the rest; all failures are joined into the result.
func (c *Commands) Apply(w *World) error {
	if c == nil || len(c.queue) == 0 {
		return nil
	}
	queue := c.queue
	c.queue = nil

	var errs []error
	for i, cmd := range queue {
		if err := cmd(w); err != nil {
			errs = append(errs, fmt.Errorf("ecs: command %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Insert queues attaching value to e.
func Insert[T any](c *Commands, e Entity, kind component.ComponentKind[T], value *T) {
	c.Push(func(w *World) error {
		if err := Add(w, e, kind, value); err != nil {
			return fmt.Errorf("insert on %s: %w", e, err)
		}
		return nil
	})
}

// Strip queues removing the kind component from e. Missing components are
// not an error.
func Strip[T any](c *Commands, e Entity, kind component.ComponentKind[T]) {
	c.Push(func(w *World) error {
		if !IsAlive(w, e) {
			return fmt.Errorf("strip on %s: %w", e, component.ErrEntityNotAlive)
		}
		Remove(w, e, kind)
		return nil
	})
}
