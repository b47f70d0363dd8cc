package reflector

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer draws the scene from the camera. It owns the rendering context;
// the core only asks for draws and reports viewport sizes.
type Renderer interface {
	Draw(scene *Scene, camera *Camera)
	Resize(width, height int)
}

type HUDAnchor int

const (
	AnchorTopLeft HUDAnchor = iota
	AnchorCenter
)

// HUDRenderer is implemented by renderers that can blit overlay images on
// top of the last draw.
type HUDRenderer interface {
	DrawHUD(img *image.RGBA, anchor HUDAnchor)
}

// RenderLoop issues exactly one scene draw per frame, after the frame's
// spin and control updates.
type RenderLoop struct {
	renderer Renderer
	scene    *Scene
	camera   *Camera
	stats    *Stats
	menu     *Menu
	draws    uint64
	redraw   bool
}

func NewRenderLoop(renderer Renderer, scene *Scene, camera *Camera, stats *Stats, menu *Menu) *RenderLoop {
	return &RenderLoop{
		renderer: renderer,
		scene:    scene,
		camera:   camera,
		stats:    stats,
		menu:     menu,
	}
}

// Draw renders the scene and then the overlays.
func (l *RenderLoop) Draw() {
	l.renderer.Draw(l.scene, l.camera)
	l.draws++
	l.redraw = false

	hud, ok := l.renderer.(HUDRenderer)
	if !ok {
		return
	}
	if l.stats != nil && l.stats.Visible {
		hud.DrawHUD(l.stats.Overlay(), AnchorTopLeft)
	}
	if l.menu != nil && l.menu.Visible {
		hud.DrawHUD(l.menu.Overlay(), AnchorCenter)
	}
}

// RequestRedraw marks the last frame stale. The next Draw satisfies it.
func (l *RenderLoop) RequestRedraw() {
	l.redraw = true
}

func (l *RenderLoop) RedrawPending() bool {
	return l.redraw
}

func (l *RenderLoop) Draws() uint64 {
	return l.draws
}

func (l *RenderLoop) Renderer() Renderer {
	return l.renderer
}

// Spin advances every spinning entity by its per-frame increment.
func Spin(scene *Scene) {
	scene.Each(func(e *Entity) bool {
		if e.Spin != (mgl32.Vec3{}) {
			e.Rotation = e.Rotation.Add(e.Spin)
		}
		return true
	})
}

type RenderLoopModule struct {
	Renderer  Renderer
	ShowStats bool
}

func (m RenderLoopModule) Install(app *App, cmd *Commands) {
	camera, ok := Resource[Camera](app)
	if !ok {
		panic("RenderLoopModule requires a Camera; install SceneModule first")
	}
	menu, _ := Resource[Menu](app)
	stats := NewStats(m.ShowStats)
	loop := NewRenderLoop(m.Renderer, app.Scene(), camera, stats, menu)
	cmd.AddResources(stats, loop)

	if hub, ok := Resource[InputHub](app); ok {
		viewport, _ := Resource[Viewport](app)
		if viewport == nil {
			viewport = &Viewport{}
			cmd.AddResources(viewport)
		}
		hub.On(EventResize, func(ev Event) {
			viewport.Resize(ev.Width, ev.Height, camera, loop)
		})
	}

	app.UseSystem(
		System(spinSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(drawSystem).
			InStage(Render),
	)
	app.UseSystem(
		System(statsSystem).
			InStage(PostRender),
	)
}

func spinSystem(scene *Scene) {
	Spin(scene)
}

func drawSystem(loop *RenderLoop) {
	loop.Draw()
}

func statsSystem(stats *Stats, t *Time) {
	stats.Update(t.Time)
}
