package reflector

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitControls rotates the camera around a target on a sphere. Dragging with
// the left button orbits, the wheel zooms. Pointer input is accumulated by the
// event handlers and applied to the camera by Update.
type OrbitControls struct {
	camera *Camera
	subs   subscriptions[EventKind, Event]

	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32

	enabled  bool
	rotating bool
	dirty    bool

	pendingAzimuth   float32
	pendingElevation float32
	pendingZoom      float32

	RotateSpeed  float32 // radians per pixel
	ZoomSpeed    float32 // units per wheel step
	MinRadius    float32
	MaxRadius    float32
	MinElevation float32
	MaxElevation float32
}

var _ ControlScheme = (*OrbitControls)(nil)

// NewOrbitControls orbits around target starting from the camera's current
// position.
func NewOrbitControls(camera *Camera, hub *InputHub, target mgl32.Vec3) *OrbitControls {
	oc := &OrbitControls{
		camera:       camera,
		subs:         subscriptions[EventKind, Event]{d: hub},
		target:       target,
		enabled:      true,
		RotateSpeed:  0.005,
		ZoomSpeed:    1,
		MinRadius:    0.5,
		MaxRadius:    200,
		MinElevation: -float32(math.Pi/2) + 0.05,
		MaxElevation: float32(math.Pi/2) - 0.05,
	}

	offset := camera.Position.Sub(target)
	oc.radius = offset.Len()
	if oc.radius < 1e-6 {
		oc.radius = oc.MinRadius
		offset = mgl32.Vec3{0, 0, oc.radius}
	}
	oc.elevation = float32(math.Asin(float64(mgl32.Clamp(offset.Y()/oc.radius, -1, 1))))
	oc.azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	return oc
}

func (oc *OrbitControls) Name() string { return "orbit" }

func (oc *OrbitControls) Connect() {
	if oc.subs.active() {
		return
	}
	oc.subs.on(EventPointerDown, func(ev Event) {
		if oc.enabled && ev.Button == MouseButtonLeft {
			oc.rotating = true
		}
	})
	oc.subs.on(EventPointerUp, func(ev Event) {
		if ev.Button == MouseButtonLeft {
			oc.rotating = false
		}
	})
	oc.subs.on(EventPointerMove, func(ev Event) {
		if !oc.enabled || !oc.rotating {
			return
		}
		oc.pendingAzimuth -= float32(ev.DX) * oc.RotateSpeed
		oc.pendingElevation += float32(ev.DY) * oc.RotateSpeed
		oc.dirty = true
	})
	oc.subs.on(EventWheel, func(ev Event) {
		if !oc.enabled {
			return
		}
		oc.pendingZoom -= float32(ev.Scroll) * oc.ZoomSpeed
		oc.dirty = true
	})
}

func (oc *OrbitControls) Dispose() {
	oc.subs.off()
	oc.rotating = false
	oc.clearPending()
}

func (oc *OrbitControls) Connected() bool {
	return oc.subs.active()
}

// SetEnabled gates pointer handling. Input not yet applied is dropped on
// disable; a held button keeps orbiting once re-enabled.
func (oc *OrbitControls) SetEnabled(enabled bool) {
	oc.enabled = enabled
	if !enabled {
		oc.clearPending()
	}
}

func (oc *OrbitControls) Enabled() bool {
	return oc.enabled
}

func (oc *OrbitControls) Target() mgl32.Vec3 {
	return oc.target
}

func (oc *OrbitControls) Radius() float32 {
	return oc.radius
}

func (oc *OrbitControls) clearPending() {
	oc.pendingAzimuth, oc.pendingElevation, oc.pendingZoom = 0, 0, 0
	oc.dirty = false
}

// Update applies accumulated pointer input to the camera.
func (oc *OrbitControls) Update() {
	oc.update()
}

// update reports whether the camera moved.
func (oc *OrbitControls) update() bool {
	if !oc.dirty || !oc.enabled {
		return false
	}
	oc.azimuth += oc.pendingAzimuth
	oc.elevation = mgl32.Clamp(oc.elevation+oc.pendingElevation, oc.MinElevation, oc.MaxElevation)
	oc.radius = mgl32.Clamp(oc.radius+oc.pendingZoom, oc.MinRadius, oc.MaxRadius)
	oc.clearPending()

	cosElev := float32(math.Cos(float64(oc.elevation)))
	sinElev := float32(math.Sin(float64(oc.elevation)))
	cosAzim := float32(math.Cos(float64(oc.azimuth)))
	sinAzim := float32(math.Sin(float64(oc.azimuth)))

	oc.camera.Position = oc.target.Add(mgl32.Vec3{
		oc.radius * cosElev * sinAzim,
		oc.radius * sinElev,
		oc.radius * cosElev * cosAzim,
	})
	oc.camera.LookAt(oc.target)
	return true
}
