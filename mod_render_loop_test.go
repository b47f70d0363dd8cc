package reflector

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderApp(t *testing.T, r *fakeRenderer) *App {
	t.Helper()
	cfg := DefaultConfig()
	app := NewApp()
	app.UseModules(
		TimeModule{},
		InputModule{},
		SceneModule{Config: cfg, Rand: rand.New(rand.NewPCG(5, 5))},
		ControlsModule{Config: cfg.Controls, Capture: &fakeCapture{}},
		RenderLoopModule{Renderer: r, ShowStats: true},
	)
	return app
}

func TestSpin(t *testing.T) {
	scene := NewScene()
	e := NewEntity("ball", Geometry{Shape: ShapeSphere}, NewMaterial("ball", 0))
	e.Spin = mgl32.Vec3{0.01, 0.02, 0}
	still := NewEntity("crate", Geometry{Shape: ShapeBox}, NewMaterial("crate", 0))
	scene.Add(e)
	scene.Add(still)

	Spin(scene)
	Spin(scene)

	assert.InDelta(t, 0.02, e.Rotation.X(), 1e-6)
	assert.InDelta(t, 0.04, e.Rotation.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{}, still.Rotation)
}

func TestRenderLoopModule_OneDrawPerFrame(t *testing.T) {
	r := &fakeRenderer{}
	app := newRenderApp(t, r)

	for i := 0; i < 3; i++ {
		app.Step()
	}

	loop, ok := Resource[RenderLoop](app)
	require.True(t, ok)
	assert.Equal(t, 3, r.draws)
	assert.Equal(t, uint64(3), loop.Draws())
}

func TestRenderLoopModule_SpinBeforeDraw(t *testing.T) {
	r := &fakeRenderer{}
	app := newRenderApp(t, r)
	ball := app.Scene().Find("ball")
	require.NotNil(t, ball)

	var seen []float32
	r.onDraw = func() { seen = append(seen, ball.Rotation.X()) }
	app.Step()
	app.Step()

	require.Len(t, seen, 2)
	assert.InDelta(t, 0.01, seen[0], 1e-6)
	assert.InDelta(t, 0.02, seen[1], 1e-6)
}

func TestRenderLoopModule_ControlsApplyBeforeDraw(t *testing.T) {
	r := &fakeRenderer{}
	app := newRenderApp(t, r)
	camera, _ := Resource[Camera](app)
	input, _ := Resource[Input](app)
	start := camera.Position

	var drawnAt mgl32.Vec3
	r.onDraw = func() { drawnAt = r.lastCam.Position }
	input.Push(Event{Kind: EventPointerDown, Button: MouseButtonLeft})
	input.Push(Event{Kind: EventKeyDown, Key: KeyW})
	app.Step()

	assert.InDelta(t, 0.25, start.Sub(drawnAt).Len(), 1e-5)
}

func TestRenderLoopModule_ResizeRedraws(t *testing.T) {
	r := &fakeRenderer{}
	app := newRenderApp(t, r)
	camera, _ := Resource[Camera](app)
	input, _ := Resource[Input](app)

	loop, _ := Resource[RenderLoop](app)
	ball := app.Scene().Find("ball")

	var aspects, spins []float32
	r.onDraw = func() {
		aspects = append(aspects, r.lastCam.Aspect)
		spins = append(spins, ball.Rotation.X())
	}
	input.Push(Event{Kind: EventResize, Width: 1000, Height: 500})
	app.Step()

	assert.Equal(t, [][2]int{{1000, 500}}, r.sizes)
	assert.Equal(t, float32(2), camera.Aspect)
	assert.Equal(t, 1, r.draws, "the redraw is the frame's single draw")
	assert.Equal(t, []float32{2}, aspects)
	assert.InDelta(t, 0.01, spins[0], 1e-6, "drawn after the frame's update")
	assert.False(t, loop.RedrawPending())

	input.Push(Event{Kind: EventResize, Width: 1000, Height: 0})
	app.Step()
	assert.Len(t, r.sizes, 1)
	assert.Equal(t, float32(2), camera.Aspect)
}

func TestRenderLoop_Overlays(t *testing.T) {
	r := &fakeRenderer{}
	menu := NewMenu()
	stats := NewStats(true)
	loop := NewRenderLoop(r, NewScene(), NewPerspectiveCamera(75, 1, 0.1, 10), stats, menu)

	loop.Draw()
	assert.Equal(t, []HUDAnchor{AnchorTopLeft, AnchorCenter}, r.huds)

	menu.SetMenuVisible(false)
	stats.Visible = false
	loop.Draw()
	assert.Len(t, r.huds, 2)
}

func TestStats_Update(t *testing.T) {
	s := NewStats(true)
	assert.Equal(t, "-- FPS", s.Text())

	start := time.Unix(0, 0)
	s.Update(start)
	for i := 1; i <= 60; i++ {
		s.Update(start.Add(time.Duration(i) * time.Second / 60))
	}

	assert.InDelta(t, 60, s.FPS(), 0.5)
	assert.Equal(t, "60 FPS (60-60)", s.Text())

	img := s.Overlay()
	require.NotNil(t, img)
	assert.Same(t, img, s.Overlay(), "unchanged text reuses the image")
}

func TestMenu_Overlay(t *testing.T) {
	m := NewMenu()
	img := m.Overlay()
	require.NotNil(t, img)
	assert.Greater(t, img.Bounds().Dx(), 100)
	assert.Greater(t, img.Bounds().Dy(), 4*13)
}
