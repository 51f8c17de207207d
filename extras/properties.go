package extras

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrMissingProperty = errors.New("extras: missing property")

// Properties is the free-form payload produced by the exporter's property
// list: one entry per property id, each a string, bool, integer, float,
// vector3, cuboid, sphere or capsule value.
type Properties map[string]json.RawMessage

// Property decodes the property id into T.
func Property[T any](p Properties, id string) (T, error) {
	var out T
	raw, ok := p[id]
	if !ok {
		return out, fmt.Errorf("%w %q", ErrMissingProperty, id)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: property %q: %w", ErrMalformed, id, err)
	}
	return out, nil
}

func (p Properties) Has(id string) bool {
	_, ok := p[id]
	return ok
}

// IDs returns the property ids in sorted order.
func (p Properties) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p Properties) String(id string) (string, error) { return Property[string](p, id) }
func (p Properties) Bool(id string) (bool, error) { return Property[bool](p, id) }
func (p Properties) Int(id string) (int, error) { return Property[int](p, id) }
func (p Properties) Float(id string) (float64, error) { return Property[float64](p, id) }
func (p Properties) Vector3(id string) (Vec3, error) { return Property[Vec3](p, id) }
func (p Properties) Cuboid(id string) (CuboidData, error) { return Property[CuboidData](p, id) }
func (p Properties) Sphere(id string) (SphereData, error) { return Property[SphereData](p, id) }
func (p Properties) Capsule(id string) (CapsuleData, error) { return Property[CapsuleData](p, id) }
