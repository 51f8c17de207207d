package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/sceneextras/ecs/component"
)

func TestCommandsDeferUntilApply(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[string]()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	var cmds Commands
	Insert(&cmds, e1, kind, stringPtr("one"))
	Insert(&cmds, e2, kind, stringPtr("two"))
	cmds.Spawn(func(w *World, e Entity) error {
		return Add(w, e, kind, stringPtr("spawned"))
	})

	if Has(w, e1, kind) || Has(w, e2, kind) || w.Len() != 2 {
		t.Fatalf("queued commands must not touch the world before Apply")
	}
	if cmds.Len() != 3 {
		t.Fatalf("expected 3 queued commands, got %d", cmds.Len())
	}

	if err := cmds.Apply(w); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if cmds.Len() != 0 {
		t.Fatalf("apply should clear the queue")
	}

	got := map[string]bool{}
	ForEach(w, kind, func(_ Entity, v *string) { got[*v] = true })
	for _, want := range []string{"one", "two", "spawned"} {
		if !got[want] {
			t.Fatalf("missing %q after apply, got %v", want, got)
		}
	}
}

func TestCommandsApplyRunsEverythingAndJoinsErrors(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	dead := CreateEntity(w)
	DestroyEntity(w, dead)
	live := CreateEntity(w)

	var cmds Commands
	Insert(&cmds, dead, kind, intPtr(1))
	Insert(&cmds, live, kind, intPtr(2))
	cmds.Despawn(dead)
	cmds.Spawn(func(*World, Entity) error { return errors.New("boom") })

	err := cmds.Apply(w)
	if !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive in joined error, got %v", err)
	}
	if v, ok := Get(w, live, kind); !ok || *v != 2 {
		t.Fatalf("later commands must still run, got %v ok=%v", v, ok)
	}
	if w.Len() != 1 {
		t.Fatalf("failed spawn must not leave an entity behind, got %d entities", w.Len())
	}
}

func TestStrip(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	e := CreateEntity(w)
	_ = Add(w, e, kind, intPtr(1))

	var cmds Commands
	Strip(&cmds, e, kind)
	Strip(&cmds, e, kind)
	if err := cmds.Apply(w); err != nil {
		t.Fatalf("strip of a missing component should not fail: %v", err)
	}
	if Has(w, e, kind) {
		t.Fatalf("component should be gone")
	}
}

func TestCommandsAppend(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[string]()
	e := CreateEntity(w)

	var cmds, staged Commands
	Insert(&staged, e, kind, stringPtr("staged"))
	cmds.Append(&staged)

	if staged.Len() != 0 || cmds.Len() != 1 {
		t.Fatalf("append should move commands, got %d and %d", staged.Len(), cmds.Len())
	}
	if err := cmds.Apply(w); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if v, ok := Get(w, e, kind); !ok || *v != "staged" {
		t.Fatalf("appended insert not applied")
	}
}
