// Package script runs tengo programs as scene extras callbacks. A program
// sees the globals name, data and err for the current entity and answers by
// assigning an array of component descriptions to components:
//
//	if data != undefined && data.turret {
//		components = [{kind: "tag", name: "turret"}]
//	}
package script

import (
	"fmt"
	"io/fs"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/extras"
)

// Runner holds one compiled program. It is not safe for concurrent use.
type Runner struct {
	name     string
	compiled *tengo.Compiled
	registry Registry
	log      zerolog.Logger
}

// Compile builds a runner for src. A nil registry means DefaultRegistry.
func Compile(name string, src []byte, registry Registry, log zerolog.Logger) (*Runner, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}

	script := tengo.NewScript(src)
	_ = script.Add("name", "")
	_ = script.Add("data", nil)
	_ = script.Add("err", nil)
	_ = script.Add("components", []any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	return &Runner{
		name:     name,
		compiled: compiled,
		registry: registry,
		log:      log.With().Str("script", name).Logger(),
	}, nil
}

// Load reads and compiles a program from fsys.
func Load(fsys fs.FS, path string, registry Registry, log zerolog.Logger) (*Runner, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return Compile(path, src, registry, log)
}

// Callback adapts the runner to extras.Parse. Script failures are logged and
// the entity is skipped.
func (r *Runner) Callback() extras.Callback[map[string]any] {
	return func(cmds *ecs.Commands, e ecs.Entity, name string, data *map[string]any, derr error) {
		if err := r.Run(cmds, e, name, data, derr); err != nil {
			r.log.Warn().Err(err).Str("entity", e.String()).Str("name", name).Msg("script callback failed")
		}
	}
}

// Run executes the program for one entity and queues the components it
// describes. Nothing is queued when the program or any description fails.
func (r *Runner) Run(cmds *ecs.Commands, e ecs.Entity, name string, data *map[string]any, derr error) error {
	if r == nil || r.compiled == nil {
		return fmt.Errorf("script: nil runner")
	}

	var payload any
	if data != nil {
		payload = *data
	}
	var errText any
	if derr != nil {
		errText = derr.Error()
	}

	if err := r.compiled.Set("name", name); err != nil {
		return err
	}
	if err := r.compiled.Set("data", payload); err != nil {
		return err
	}
	if err := r.compiled.Set("err", errText); err != nil {
		return err
	}
	if err := r.compiled.Set("components", []any{}); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script: run %s: %w", r.name, err)
	}

	items, err := r.components()
	if err != nil {
		return err
	}

	var staged ecs.Commands
	for i, fields := range items {
		kind := asString(fields["kind"])
		b, ok := r.registry[kind]
		if !ok {
			return fmt.Errorf("script: component %d: unknown kind %q", i, kind)
		}
		if err := b(&staged, e, fields); err != nil {
			return fmt.Errorf("script: component %d (%s): %w", i, kind, err)
		}
	}
	cmds.Append(&staged)
	return nil
}

func (r *Runner) components() ([]map[string]any, error) {
	obj := r.compiled.Get("components")
	if obj == nil || obj.IsUndefined() {
		return nil, nil
	}
	raw, ok := obj.Value().([]any)
	if !ok {
		return nil, fmt.Errorf("script: components must be an array, got %T", obj.Value())
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("script: component %d must be a map", i)
		}
		out = append(out, m)
	}
	return out, nil
}
