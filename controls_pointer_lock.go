package reflector

import (
	"errors"
	"fmt"
)

// ControlScheme is one way of turning input into camera or object motion.
// A scheme only reacts to input between Connect and Dispose.
type ControlScheme interface {
	Name() string
	Connect()
	Dispose()
	Connected() bool
	// Update is the continuous per-frame hook.
	Update()
}

// PointerCapture is the host's exclusive pointer lock.
type PointerCapture interface {
	RequestLock() error
	ReleaseLock()
}

var ErrCaptureDenied = errors.New("pointer capture denied")

// PointerLockControls is first-person look and step movement while the
// pointer is captured.
type PointerLockControls struct {
	camera  *Camera
	capture PointerCapture
	subs    subscriptions[EventKind, Event]
	locked  bool

	Sensitivity float32
	MaxPitch    float32
}

var _ ControlScheme = (*PointerLockControls)(nil)

func NewPointerLockControls(camera *Camera, capture PointerCapture, hub *InputHub) *PointerLockControls {
	return &PointerLockControls{
		camera:      camera,
		capture:     capture,
		subs:        subscriptions[EventKind, Event]{d: hub},
		Sensitivity: 0.1,
		MaxPitch:    89,
	}
}

func (c *PointerLockControls) Name() string { return "pointer-lock" }

func (c *PointerLockControls) Connect() {
	if c.subs.active() {
		return
	}
	c.subs.on(EventPointerMove, func(ev Event) {
		if c.locked {
			c.Look(ev.DX, ev.DY)
		}
	})
}

func (c *PointerLockControls) Dispose() {
	c.subs.off()
}

func (c *PointerLockControls) Connected() bool {
	return c.subs.active()
}

func (c *PointerLockControls) Update() {}

// Lock asks the host for capture. A denied request leaves the controls unlocked.
func (c *PointerLockControls) Lock() error {
	if c.locked {
		return nil
	}
	if err := c.capture.RequestLock(); err != nil {
		return fmt.Errorf("lock pointer: %w", err)
	}
	c.locked = true
	return nil
}

// Unlock gives capture back to the host.
func (c *PointerLockControls) Unlock() {
	if !c.locked {
		return
	}
	c.locked = false
	c.capture.ReleaseLock()
}

// lost records that the host already took capture away.
func (c *PointerLockControls) lost() {
	c.locked = false
}

func (c *PointerLockControls) IsLocked() bool {
	return c.locked
}

// MoveForward moves parallel to the ground along the view direction.
func (c *PointerLockControls) MoveForward(distance float32) {
	right := c.camera.Right()
	forward := right.Cross(upAxis).Mul(-1)
	c.camera.Position = c.camera.Position.Add(forward.Mul(distance))
}

func (c *PointerLockControls) MoveRight(distance float32) {
	c.camera.Position = c.camera.Position.Add(c.camera.Right().Mul(distance))
}

func (c *PointerLockControls) Look(dx, dy float64) {
	c.camera.Yaw += float32(dx) * c.Sensitivity
	c.camera.Pitch -= float32(dy) * c.Sensitivity

	if c.camera.Pitch > c.MaxPitch {
		c.camera.Pitch = c.MaxPitch
	}
	if c.camera.Pitch < -c.MaxPitch {
		c.camera.Pitch = -c.MaxPitch
	}
}
