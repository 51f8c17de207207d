package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

// Builder turns one script-produced component description into a queued
// insert on e.
type Builder func(cmds *ecs.Commands, e ecs.Entity, fields map[string]any) error

// Registry maps the "kind" field of a component description to its builder.
type Registry map[string]Builder

// DefaultRegistry knows the components every scene can produce.
func DefaultRegistry() Registry {
	return Registry{
		"tag":      buildTag,
		"collider": buildCollider,
	}
}

// Register adds or replaces a builder.
func (r Registry) Register(kind string, b Builder) {
	r[kind] = b
}

// Kinds returns the registered kinds in sorted order.
func (r Registry) Kinds() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func buildTag(cmds *ecs.Commands, e ecs.Entity, fields map[string]any) error {
	name := strings.TrimSpace(asString(fields["name"]))
	if name == "" {
		return fmt.Errorf("tag requires a name")
	}
	ecs.Insert(cmds, e, component.TagComponent.Kind(), &component.Tag{Name: name})
	return nil
}

func buildCollider(cmds *ecs.Commands, e ecs.Entity, fields map[string]any) error {
	c := component.Collider{Up: [3]float64{0, 1, 0}}
	var err error
	if c.Offset, err = asVec3(fields["offset"], [3]float64{}); err != nil {
		return fmt.Errorf("collider offset: %w", err)
	}

	switch shape := component.ColliderShape(asString(fields["shape"])); shape {
	case component.ColliderCuboid:
		c.Shape = shape
		if c.HalfExtents, err = asVec3(fields["half_extents"], [3]float64{}); err != nil {
			return fmt.Errorf("collider half_extents: %w", err)
		}
	case component.ColliderSphere:
		c.Shape = shape
		c.Radius, _ = asFloat(fields["radius"])
	case component.ColliderCapsule:
		c.Shape = shape
		c.Radius, _ = asFloat(fields["radius"])
		c.Height, _ = asFloat(fields["height"])
		if c.Up, err = asVec3(fields["up"], c.Up); err != nil {
			return fmt.Errorf("collider up: %w", err)
		}
	default:
		return fmt.Errorf("unknown collider shape %q", shape)
	}

	ecs.Insert(cmds, e, component.ColliderComponent.Kind(), &c)
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func asVec3(v any, def [3]float64) ([3]float64, error) {
	if v == nil {
		return def, nil
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return def, fmt.Errorf("expected a 3 element array, got %v", v)
	}
	var out [3]float64
	for i, item := range arr {
		f, ok := asFloat(item)
		if !ok {
			return def, fmt.Errorf("element %d is not a number", i)
		}
		out[i] = f
	}
	return out, nil
}
