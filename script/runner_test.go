package script

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
	"github.com/milk9111/sceneextras/extras"
)

const tagScript = `
if err != undefined {
	components = [{kind: "tag", name: "broken"}]
} else if data != undefined && data.turret {
	components = [
		{kind: "tag", name: name},
		{kind: "collider", shape: "sphere", radius: data.radius}
	]
}
`

func compile(t *testing.T, src string, reg Registry) *Runner {
	t.Helper()
	r, err := Compile("test.tengo", []byte(src), reg, zerolog.Nop())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return r
}

func TestRunQueuesComponents(t *testing.T) {
	r := compile(t, tagScript, nil)

	tests := []struct {
		name     string
		data     *map[string]any
		derr     error
		wantTag  string
		collider bool
	}{
		{name: "turret", data: &map[string]any{"turret": true, "radius": 0.5}, wantTag: "turret", collider: true},
		{name: "plain", data: &map[string]any{"turret": false}},
		{name: "no_payload"},
		{name: "malformed", derr: errors.New("bad blob"), wantTag: "broken"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			var cmds ecs.Commands

			if err := r.Run(&cmds, e, tc.name, tc.data, tc.derr); err != nil {
				t.Fatalf("run: %v", err)
			}
			if err := cmds.Apply(w); err != nil {
				t.Fatalf("apply: %v", err)
			}

			tag, ok := ecs.Get(w, e, component.TagComponent.Kind())
			if tc.wantTag == "" {
				if ok {
					t.Fatalf("unexpected tag %q", tag.Name)
				}
			} else if !ok || tag.Name != tc.wantTag {
				t.Fatalf("expected tag %q, got %+v", tc.wantTag, tag)
			}

			c, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
			if ok != tc.collider {
				t.Fatalf("collider present = %v, want %v", ok, tc.collider)
			}
			if ok && (c.Shape != component.ColliderSphere || c.Radius != 0.5) {
				t.Fatalf("unexpected collider %+v", c)
			}
		})
	}
}

func TestRunRejectsWholeEntityOnBadComponent(t *testing.T) {
	r := compile(t, `components = [{kind: "tag", name: "ok"}, {kind: "nope"}]`, nil)
	var cmds ecs.Commands
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	if err := r.Run(&cmds, e, "x", nil, nil); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if cmds.Len() != 0 {
		t.Fatalf("nothing should be queued, got %d", cmds.Len())
	}
}

func TestComponentsResetBetweenRuns(t *testing.T) {
	r := compile(t, `if name == "first" { components = [{kind: "tag", name: "first"}] }`, nil)
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)

	var cmds ecs.Commands
	if err := r.Run(&cmds, a, "first", nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := r.Run(&cmds, b, "second", nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if cmds.Len() != 1 {
		t.Fatalf("second run must not repeat the first run's components, got %d commands", cmds.Len())
	}
}

func TestCustomBuilder(t *testing.T) {
	reg := DefaultRegistry()
	var seen []string
	reg.Register("mark", func(_ *ecs.Commands, _ ecs.Entity, fields map[string]any) error {
		seen = append(seen, asString(fields["label"]))
		return nil
	})
	if got := reg.Kinds(); len(got) != 3 || got[1] != "mark" {
		t.Fatalf("unexpected kinds %v", got)
	}

	r := compile(t, `components = [{kind: "mark", label: "x"}]`, reg)
	var cmds ecs.Commands
	if err := r.Run(&cmds, ecs.Entity(0), "", nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != 1 || seen[0] != "x" {
		t.Fatalf("custom builder not called, got %v", seen)
	}
}

func TestCallbackWithParse(t *testing.T) {
	w := ecs.NewWorld()
	turret := ecs.CreateEntity(w)
	_ = ecs.Add(w, turret, component.NameComponent.Kind(), &component.Name{Value: "turret_a"})
	_ = ecs.Add(w, turret, component.ExtrasComponent.Kind(), &component.Extras{Value: `{"bbu_object_data":{"turret":true,"radius":0.5}}`})
	broken := ecs.CreateEntity(w)
	_ = ecs.Add(w, broken, component.ExtrasComponent.Kind(), &component.Extras{Value: `{"bbu_object_data":`})

	fsys := fstest.MapFS{"scripts/tags.tengo": {Data: []byte(tagScript)}}
	r, err := Load(fsys, "scripts/tags.tengo", nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := extras.ParseWorld(w, extras.DefaultKey, r.Callback()); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if tag, ok := ecs.Get(w, turret, component.TagComponent.Kind()); !ok || tag.Name != "turret_a" {
		t.Fatalf("turret should be tagged with its name, got %+v", tag)
	}
	if tag, ok := ecs.Get(w, broken, component.TagComponent.Kind()); !ok || tag.Name != "broken" {
		t.Fatalf("malformed entity should be tagged broken, got %+v", tag)
	}
}

func TestCompileAndLoadErrors(t *testing.T) {
	if _, err := Compile("bad.tengo", []byte("components = ["), nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := Load(fstest.MapFS{}, "missing.tengo", nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected load error")
	}
}
