package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/sceneextras/ecs"
	"github.com/milk9111/sceneextras/ecs/component"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// pixels per scene unit
	zoom = 160.0
)

type Game struct {
	host   *Host
	frames int
	paused bool
	pause  *ebitenui.UI
	status *statusText
}

func NewGame(host *Host) *Game {
	g := &Game{host: host}
	g.pause, g.status = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.status.Set(g.host.Status())
		g.pause.Update()
		return nil
	}

	g.host.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	w := g.host.world

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.GlobalTransformComponent.Kind(), func(_ ecs.Entity, c *component.Collider, t *component.GlobalTransform) {
		drawCollider(screen, c, t)
	})

	ecs.ForEach2(w, component.SpawnerComponent.Kind(), component.GlobalTransformComponent.Kind(), func(_ ecs.Entity, _ *component.Spawner, t *component.GlobalTransform) {
		x, y := toScreen(t.X, t.Y)
		vector.DrawFilledRect(screen, x-12, y-12, 24, 24, colornames.Orange, false)
	})

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Projectile, t *component.Transform) {
		x, y := toScreen(t.X, t.Y)
		half := float32(projectileSize * zoom / 2)
		vector.DrawFilledRect(screen, x-half, y-half, 2*half, 2*half, colornames.Azure, false)
	})

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Entities: %d    Shapes: %d",
		g.frames, ebiten.ActualFPS(), w.Len(), g.host.physics.ShapeCount()))

	if g.paused {
		g.pause.Draw(screen)
	}
}

func drawCollider(screen *ebiten.Image, c *component.Collider, t *component.GlobalTransform) {
	x, y := toScreen(t.X+c.Offset[0], t.Y+c.Offset[1])
	clr := color.RGBA{R: 255, G: 0, B: 0, A: 200}

	switch c.Shape {
	case component.ColliderCuboid:
		hw := float32(c.HalfExtents[0] * t.ScaleX * zoom)
		hh := float32(c.HalfExtents[1] * t.ScaleY * zoom)
		vector.StrokeRect(screen, x-hw, y-hh, 2*hw, 2*hh, 1.0, clr, false)
	case component.ColliderSphere:
		vector.StrokeCircle(screen, x, y, float32(c.Radius*zoom), 1.0, clr, true)
	case component.ColliderCapsule:
		half := c.Height - c.Radius
		x0, y0 := toScreen(t.X+c.Offset[0]-c.Up[0]*half, t.Y+c.Offset[1]-c.Up[1]*half)
		x1, y1 := toScreen(t.X+c.Offset[0]+c.Up[0]*half, t.Y+c.Offset[1]+c.Up[1]*half)
		vector.StrokeLine(screen, x0, y0, x1, y1, float32(2*c.Radius*zoom), colornames.Lightgrey, true)
	}
}

// toScreen maps scene units, Y up, to screen pixels centered on the origin.
func toScreen(x, y float64) (float32, float32) {
	return float32(baseWidth/2 + x*zoom), float32(baseHeight/2 - y*zoom)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
