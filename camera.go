package reflector

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var upAxis = mgl32.Vec3{0, 1, 0}

// Camera is a perspective camera. Yaw and Pitch are in degrees; yaw 0 looks
// down -Z.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	children []EntityId
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)
	return mgl32.Vec3{
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(-math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}.Normalize()
}

// Right is horizontal regardless of pitch.
func (c *Camera) Right() mgl32.Vec3 {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{float32(math.Cos(yawRad)), 0, float32(math.Sin(yawRad))}
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

// LookAt turns the camera towards target without moving it.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return
	}
	dir = dir.Normalize()
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1)))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.X()), float64(-dir.Z()))))
}

// SetAspect updates the projection aspect ratio; non-positive values are ignored.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 || math.IsNaN(float64(aspect)) || math.IsInf(float64(aspect), 0) {
		return
	}
	c.Aspect = aspect
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), upAxis)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// WorldMatrix is the inverse of the view matrix: camera space to world space.
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return c.ViewMatrix().Inv()
}

// Attach parents e to the camera so it follows every camera move.
func (c *Camera) Attach(e *Entity) {
	e.attached = true
	c.children = append(c.children, e.Id)
}

func (c *Camera) Children() []EntityId {
	return c.children
}

// Ray returns a world-space ray through the pixel (x, y) of a width*height
// viewport, y growing downwards.
func (c *Camera) Ray(x, y float64, width, height int) (origin, dir mgl32.Vec3) {
	if width <= 0 || height <= 0 {
		return c.Position, c.Forward()
	}
	winY := float32(height) - float32(y)
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	near, err := mgl32.UnProject(mgl32.Vec3{float32(x), winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return c.Position, c.Forward()
	}
	far, err := mgl32.UnProject(mgl32.Vec3{float32(x), winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return c.Position, c.Forward()
	}
	return near, far.Sub(near).Normalize()
}
