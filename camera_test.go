package reflector

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestCamera_Forward(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, c.Forward())

	c.Yaw = 90
	assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Forward())
	assertVec3(t, mgl32.Vec3{0, 0, 1}, c.Right())

	c.Yaw, c.Pitch = 0, 90
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Forward())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, c.Right())
}

func TestCamera_LookAt(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	c.Position = mgl32.Vec3{0, 0, 5}

	c.LookAt(mgl32.Vec3{5, 0, 5})
	assert.InDelta(t, 90, c.Yaw, 1e-3)
	assert.InDelta(t, 0, c.Pitch, 1e-3)

	c.LookAt(mgl32.Vec3{0, 5, 0})
	assert.InDelta(t, 45, c.Pitch, 1e-3)
	assertVec3(t, mgl32.Vec3{0, 5, -5}.Normalize(), c.Forward())

	yaw, pitch := c.Yaw, c.Pitch
	c.LookAt(c.Position)
	assert.Equal(t, yaw, c.Yaw)
	assert.Equal(t, pitch, c.Pitch)
}

func TestCamera_SetAspect(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)

	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect)

	c.SetAspect(0)
	c.SetAspect(-1)
	assert.Equal(t, float32(2), c.Aspect)
}

func TestCamera_RayThroughCentre(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	c.Position = mgl32.Vec3{1, 2, 3}

	origin, dir := c.Ray(50, 50, 100, 100)

	assertVec3(t, c.Forward(), dir)
	assert.InDelta(t, 0.1, origin.Sub(c.Position).Len(), 1e-3)

	_, left := c.Ray(0, 50, 100, 100)
	assert.Less(t, left.X(), float32(0))
	_, top := c.Ray(50, 0, 100, 100)
	assert.Greater(t, top.Y(), float32(0), "pixel rows grow downwards")

	origin, dir = c.Ray(1, 1, 0, 0)
	assert.Equal(t, c.Position, origin)
	assertVec3(t, c.Forward(), dir)
}

func TestCamera_AttachFollows(t *testing.T) {
	scene := NewScene()
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	ball := NewEntity("ball", Geometry{Shape: ShapeSphere, Params: []float32{0.4}}, NewMaterial("ball", 0))
	ball.Position = mgl32.Vec3{0, 0, -2}
	scene.Add(ball)
	c.Attach(ball)

	assert.True(t, ball.AttachedToCamera())
	assert.Equal(t, []EntityId{ball.Id}, c.Children())
	assertVec3(t, mgl32.Vec3{0, 0, -2}, ball.WorldPosition(c))

	c.Position = mgl32.Vec3{10, 0, 0}
	c.Yaw = 90
	assertVec3(t, mgl32.Vec3{12, 0, 0}, ball.WorldPosition(c))
}

func TestViewport_Resize(t *testing.T) {
	c := NewPerspectiveCamera(75, 1, 0.1, 100)
	r := &fakeRenderer{}
	loop := NewRenderLoop(r, NewScene(), c, nil, nil)
	v := &Viewport{Width: 100, Height: 100}

	assert.True(t, v.Resize(800, 400, c, loop))
	assert.Equal(t, float32(2), c.Aspect)
	assert.Equal(t, [][2]int{{800, 400}}, r.sizes)
	assert.Zero(t, r.draws, "the redraw waits for the render stage")
	assert.True(t, loop.RedrawPending())

	loop.Draw()
	assert.False(t, loop.RedrawPending())

	assert.False(t, v.Resize(800, 0, c, loop))
	assert.Equal(t, 800, v.Width)
	assert.Equal(t, 400, v.Height)
	assert.Equal(t, float32(2), c.Aspect)
	assert.False(t, loop.RedrawPending())

	assert.Equal(t, float32(1), (&Viewport{}).Aspect())
}
