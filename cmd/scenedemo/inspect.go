package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/asset"
	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
	"github.com/milk9111/sceneextras/extras"
)

// inspect loads path synchronously and writes one line per node that carries
// metadata, with the outcome of decoding it.
func inspect(out io.Writer, fsys fs.FS, path, key string, log zerolog.Logger) error {
	server := asset.NewServer(asset.Options{FS: fsys, Logger: log})
	sc, err := server.LoadSync(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	fmt.Fprintf(out, "scene %q from %s: %d entities\n", sc.Name, path, sc.World.Len())
	return extras.ParseWorld(sc.World, key, func(_ *ecs.Commands, e ecs.Entity, name string, data *objectData, err error) {
		props := rawProperties(sc.World, e, key)
		switch {
		case err != nil:
			id, _ := props.String("id")
			fmt.Fprintf(out, "  %-8s %-16s error: %v (id %q, fields %v)\n", e, name, err, id, props.IDs())
		case data == nil:
			fmt.Fprintf(out, "  %-8s %-16s no payload\n", e, name)
		default:
			b, _ := json.Marshal(data)
			fmt.Fprintf(out, "  %-8s %-16s %T %s fields %v\n", e, name, data.sceneObject, b, props.IDs())
		}
	})
}

// rawProperties reads the payload of e as a loose property bag, so fields the
// typed decode rejected can still be shown.
func rawProperties(w *ecs.World, e ecs.Entity, key string) extras.Properties {
	blob, ok := ecs.Get(w, e, component.ExtrasComponent.Kind())
	if !ok {
		return nil
	}
	props, err := extras.DecodeKey[extras.Properties](blob.Value, key)
	if err != nil || props == nil {
		return nil
	}
	return *props
}
