package reflector

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type DragEventKind int

const (
	DragHoverOn DragEventKind = iota
	DragHoverOff
	DragStart
	Drag
	DragEnd
)

func (k DragEventKind) String() string {
	switch k {
	case DragHoverOn:
		return "hoveron"
	case DragHoverOff:
		return "hoveroff"
	case DragStart:
		return "dragstart"
	case Drag:
		return "drag"
	case DragEnd:
		return "dragend"
	}
	return "unknown"
}

type DragEvent struct {
	Kind   DragEventKind
	Entity *Entity
}

func dragEventKind(ev DragEvent) DragEventKind {
	return ev.Kind
}

// DragControls moves a fixed set of entities with the pointer. The grabbed
// entity slides on a plane facing the camera through the grab point.
type DragControls struct {
	camera   *Camera
	viewport *Viewport
	objects  []*Entity
	subs     subscriptions[EventKind, Event]
	events   *Dispatcher[DragEventKind, DragEvent]

	hovered  *Entity
	selected *Entity

	planeNormal mgl32.Vec3
	planePoint  mgl32.Vec3
	grabOffset  mgl32.Vec3
}

var _ ControlScheme = (*DragControls)(nil)

// NewDragControls registers objects as drag targets. Entities attached to
// the camera are skipped: they have no world position of their own.
func NewDragControls(objects []*Entity, camera *Camera, viewport *Viewport, hub *InputHub) *DragControls {
	dc := &DragControls{
		camera:   camera,
		viewport: viewport,
		subs:     subscriptions[EventKind, Event]{d: hub},
		events:   NewDispatcher[DragEventKind, DragEvent](dragEventKind),
	}
	for _, o := range objects {
		if o != nil && !o.AttachedToCamera() {
			dc.objects = append(dc.objects, o)
		}
	}
	return dc
}

func (dc *DragControls) Name() string { return "drag" }

// On subscribes to hover and drag lifecycle events.
func (dc *DragControls) On(kind DragEventKind, fn func(DragEvent)) ListenerId {
	return dc.events.On(kind, fn)
}

func (dc *DragControls) Off(id ListenerId) {
	dc.events.Off(id)
}

func (dc *DragControls) ListenerCount() int {
	return dc.events.ListenerCount()
}

func (dc *DragControls) Objects() []*Entity {
	return dc.objects
}

func (dc *DragControls) Hovered() *Entity {
	return dc.hovered
}

func (dc *DragControls) Selected() *Entity {
	return dc.selected
}

func (dc *DragControls) Connect() {
	if dc.subs.active() {
		return
	}
	dc.subs.on(EventPointerMove, dc.onPointerMove)
	dc.subs.on(EventPointerDown, dc.onPointerDown)
	dc.subs.on(EventPointerUp, dc.onPointerUp)
}

// Dispose stops listening to the pointer. Hover and grab state is dropped
// without emitting events.
func (dc *DragControls) Dispose() {
	dc.subs.off()
	dc.hovered = nil
	dc.selected = nil
}

func (dc *DragControls) Connected() bool {
	return dc.subs.active()
}

func (dc *DragControls) Update() {}

func (dc *DragControls) onPointerMove(ev Event) {
	origin, dir := dc.camera.Ray(ev.X, ev.Y, dc.viewport.Width, dc.viewport.Height)

	if dc.selected != nil {
		if hit, ok := intersectPlane(origin, dir, dc.planePoint, dc.planeNormal); ok {
			dc.selected.Position = hit.Add(dc.grabOffset)
			dc.events.Emit(DragEvent{Kind: Drag, Entity: dc.selected})
		}
		return
	}

	hit, _ := dc.pick(origin, dir)
	dc.setHovered(hit)
}

// setHovered moves hover to hit, emitting hoveroff for the previous target
// before hoveron for the new one.
func (dc *DragControls) setHovered(hit *Entity) {
	if hit == dc.hovered {
		return
	}
	if dc.hovered != nil {
		prev := dc.hovered
		dc.hovered = nil
		dc.events.Emit(DragEvent{Kind: DragHoverOff, Entity: prev})
	}
	if hit != nil {
		dc.hovered = hit
		dc.events.Emit(DragEvent{Kind: DragHoverOn, Entity: hit})
	}
}

func (dc *DragControls) onPointerDown(ev Event) {
	if ev.Button != MouseButtonLeft || dc.selected != nil {
		return
	}
	origin, dir := dc.camera.Ray(ev.X, ev.Y, dc.viewport.Width, dc.viewport.Height)
	hit, t := dc.pick(origin, dir)
	// The pointer may not have moved since the view changed under it.
	dc.setHovered(hit)
	if hit == nil {
		return
	}
	dc.selected = hit
	dc.planeNormal = dc.camera.Forward().Mul(-1)
	dc.planePoint = origin.Add(dir.Mul(t))
	dc.grabOffset = hit.Position.Sub(dc.planePoint)
	dc.events.Emit(DragEvent{Kind: DragStart, Entity: hit})
}

func (dc *DragControls) onPointerUp(ev Event) {
	if ev.Button != MouseButtonLeft || dc.selected == nil {
		return
	}
	released := dc.selected
	dc.selected = nil
	dc.events.Emit(DragEvent{Kind: DragEnd, Entity: released})
}

// pick returns the closest visible drag target along the ray and the ray
// parameter of the hit.
func (dc *DragControls) pick(origin, dir mgl32.Vec3) (*Entity, float32) {
	var best *Entity
	bestT := float32(math.MaxFloat32)
	for _, o := range dc.objects {
		if !o.Visible {
			continue
		}
		t, ok := intersectSphere(origin, dir, o.WorldPosition(dc.camera), o.BoundingRadius())
		if ok && t < bestT {
			best, bestT = o, t
		}
	}
	return best, bestT
}

// intersectSphere reports the nearest non-negative ray parameter; dir must be
// normalised.
func intersectSphere(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func intersectPlane(origin, dir, point, normal mgl32.Vec3) (mgl32.Vec3, bool) {
	denom := dir.Dot(normal)
	if math.Abs(float64(denom)) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := point.Sub(origin).Dot(normal) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}
