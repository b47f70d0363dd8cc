package reflector

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeCapture struct {
	deny     bool
	locks    int
	releases int
}

func (c *fakeCapture) RequestLock() error {
	if c.deny {
		return ErrCaptureDenied
	}
	c.locks++
	return nil
}

func (c *fakeCapture) ReleaseLock() {
	c.releases++
}

type fakeRenderer struct {
	draws   int
	sizes   [][2]int
	huds    []HUDAnchor
	onDraw  func()
	lastCam *Camera
}

func (r *fakeRenderer) Draw(scene *Scene, camera *Camera) {
	r.draws++
	r.lastCam = camera
	if r.onDraw != nil {
		r.onDraw()
	}
}

func (r *fakeRenderer) Resize(width, height int) {
	r.sizes = append(r.sizes, [2]int{width, height})
}

func (r *fakeRenderer) DrawHUD(img *image.RGBA, anchor HUDAnchor) {
	r.huds = append(r.huds, anchor)
}

type panelEntry struct {
	binding  Binding
	onChange func(any)
}

// recordingPanel keeps mounted bindings so tests can play the user.
type recordingPanel struct {
	entries map[string]panelEntry
	order   []string
}

func newRecordingPanel() *recordingPanel {
	return &recordingPanel{entries: make(map[string]panelEntry)}
}

func (p *recordingPanel) Add(b Binding, onChange func(value any)) {
	p.entries[b.Key()] = panelEntry{binding: b, onChange: onChange}
	p.order = append(p.order, b.Key())
}

func (p *recordingPanel) change(key string, value any) {
	p.entries[key].onChange(value)
}

// controlsFixture is a manager over a fresh camera and hub with two
// draggable boxes in front of the camera.
type controlsFixture struct {
	camera   *Camera
	hub      *InputHub
	capture  *fakeCapture
	menu     *Menu
	viewport *Viewport
	crate    *Entity
	beacon   *Entity
	manager  *ControlModeManager
}

func newControlsFixture() *controlsFixture {
	f := &controlsFixture{
		camera:   NewPerspectiveCamera(75, 1, 0.1, 1000),
		hub:      NewInputHub(),
		capture:  &fakeCapture{},
		menu:     NewMenu(),
		viewport: &Viewport{Width: 800, Height: 800},
	}
	f.camera.Position = mgl32.Vec3{0, 1, 2}

	f.crate = NewEntity("crate", Geometry{Shape: ShapeBox, Params: []float32{1, 1, 1}}, NewMaterial("crate", 0xffffff))
	f.crate.Position = mgl32.Vec3{0, 1, -5}
	f.beacon = NewEntity("beacon", Geometry{Shape: ShapeSphere, Params: []float32{0.5}}, NewMaterial("beacon", 0xffffff))
	f.beacon.Position = mgl32.Vec3{20, 1, -5}

	f.manager = NewControlModeManager(ControlModeOptions{
		Camera:     f.camera,
		Capture:    f.capture,
		Overlay:    f.menu,
		Hub:        f.hub,
		Viewport:   f.viewport,
		Draggables: []*Entity{f.crate, f.beacon},
	})
	f.manager.Connect()
	return f
}

func (f *controlsFixture) key(k Key) {
	f.hub.Emit(Event{Kind: EventKeyDown, Key: k})
}

// pointAt moves the pointer to the pixel where world point p projects.
func (f *controlsFixture) pointAt(p mgl32.Vec3) {
	x, y := f.project(p)
	f.hub.Emit(Event{Kind: EventPointerMove, X: x, Y: y})
}

func (f *controlsFixture) project(p mgl32.Vec3) (float64, float64) {
	clip := f.camera.ProjectionMatrix().Mul4(f.camera.ViewMatrix()).Mul4x1(p.Vec4(1))
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	x := float64((ndcX + 1) / 2 * float32(f.viewport.Width))
	y := float64((1 - ndcY) / 2 * float32(f.viewport.Height))
	return x, y
}
