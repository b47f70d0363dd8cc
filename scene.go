package reflector

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type EntityId uint64

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

type Shape int

const (
	ShapeSphere Shape = iota
	ShapeTorus
	ShapeBox
	ShapeTorusKnot
	ShapeIcosahedron
	ShapePlane
	ShapeGrid
	ShapeAxes
)

var shapeNames = map[Shape]string{
	ShapeSphere:      "sphere",
	ShapeTorus:       "torus",
	ShapeBox:         "box",
	ShapeTorusKnot:   "torusknot",
	ShapeIcosahedron: "icosahedron",
	ShapePlane:       "plane",
	ShapeGrid:        "grid",
	ShapeAxes:        "axes",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

func ParseShape(name string) (Shape, error) {
	for shape, n := range shapeNames {
		if n == name {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Geometry describes a mesh for the renderer's mesh factory. Params by shape:
//
//	sphere:      radius, widthSegments, heightSegments
//	torus:       radius, tube, radialSegments, tubularSegments
//	box:         width, height, depth
//	torusknot:   radius, tube, p, q
//	icosahedron: radius
//	plane, grid: width, depth, segments
//	axes:        size
type Geometry struct {
	Shape  Shape
	Params []float32
}

func (g Geometry) param(i int, fallback float32) float32 {
	if i < len(g.Params) {
		return g.Params[i]
	}
	return fallback
}

// BoundingRadius is the radius of a sphere around the origin enclosing the mesh.
func (g Geometry) BoundingRadius() float32 {
	switch g.Shape {
	case ShapeSphere, ShapeIcosahedron:
		return g.param(0, 1)
	case ShapeTorus:
		return g.param(0, 1) + g.param(1, 0.4)
	case ShapeTorusKnot:
		// The knot curve reaches 1.5 radii from the centre.
		return 1.5*g.param(0, 1) + g.param(1, 0.4)
	case ShapeBox:
		w, h, d := g.param(0, 1), g.param(1, 1), g.param(2, 1)
		return 0.5 * float32(math.Sqrt(float64(w*w+h*h+d*d)))
	case ShapePlane, ShapeGrid:
		w, d := g.param(0, 1), g.param(1, 1)
		return 0.5 * float32(math.Sqrt(float64(w*w+d*d)))
	case ShapeAxes:
		return g.param(0, 1)
	}
	return 1
}

// Material is shared by reference; editing it affects every entity using it.
type Material struct {
	Id         AssetId
	Name       string
	Color      uint32
	Wireframe  bool
	Opacity    float32
	Reflective bool
}

func NewMaterial(name string, color uint32) *Material {
	return &Material{
		Id:      makeAssetId(),
		Name:    name,
		Color:   color,
		Opacity: 1,
	}
}

// RGB splits the packed 0xRRGGBB color into [0,1] channels.
func (m *Material) RGB() [3]float32 {
	return UnpackColor(m.Color)
}

func UnpackColor(c uint32) [3]float32 {
	return [3]float32{
		float32((c>>16)&0xff) / 255,
		float32((c>>8)&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler XYZ, radians
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) Matrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DX(t.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

type Entity struct {
	Id       EntityId
	Name     string
	Category string
	Geometry Geometry
	Material *Material
	Transform
	Visible bool

	// Spin is added to Rotation every frame by the render loop.
	Spin mgl32.Vec3

	Draggable bool

	// attached entities are positioned in camera space.
	attached bool
}

func NewEntity(name string, geometry Geometry, material *Material) *Entity {
	return &Entity{
		Name:      name,
		Geometry:  geometry,
		Material:  material,
		Transform: IdentityTransform(),
		Visible:   true,
	}
}

func (e *Entity) AttachedToCamera() bool {
	return e.attached
}

// WorldMatrix resolves camera attachment.
func (e *Entity) WorldMatrix(cam *Camera) mgl32.Mat4 {
	if e.attached && cam != nil {
		return cam.WorldMatrix().Mul4(e.Matrix())
	}
	return e.Matrix()
}

// WorldPosition is the entity origin in world space.
func (e *Entity) WorldPosition(cam *Camera) mgl32.Vec3 {
	return mgl32.TransformCoordinate(mgl32.Vec3{}, e.WorldMatrix(cam))
}

// BoundingRadius scales the geometry radius by the largest scale axis.
func (e *Entity) BoundingRadius() float32 {
	s := e.Scale.X()
	if e.Scale.Y() > s {
		s = e.Scale.Y()
	}
	if e.Scale.Z() > s {
		s = e.Scale.Z()
	}
	return e.Geometry.BoundingRadius() * s
}

// Scene is the scene graph shared by every component of a session. It is not
// synchronised: all access happens on the frame thread.
type Scene struct {
	entities map[EntityId]*Entity
	order    []EntityId
	nextId   EntityId

	Sky Sky
}

// Sky is the gradient drawn behind everything else: Zenith overhead, Horizon
// at eye level and Ground below it.
type Sky struct {
	Zenith  uint32
	Horizon uint32
	Ground  uint32
}

func NewScene() *Scene {
	return &Scene{
		entities: make(map[EntityId]*Entity),
		nextId:   1,
	}
}

func (s *Scene) nextEntityId() EntityId {
	id := s.nextId
	s.nextId++
	return id
}

// Add inserts e immediately, assigning an id when it has none.
func (s *Scene) Add(e *Entity) EntityId {
	if e.Id == 0 {
		e.Id = s.nextEntityId()
	}
	s.insert(e)
	return e.Id
}

func (s *Scene) insert(e *Entity) {
	if _, ok := s.entities[e.Id]; !ok {
		s.order = append(s.order, e.Id)
	}
	s.entities[e.Id] = e
}

func (s *Scene) Remove(id EntityId) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}
	delete(s.entities, id)
	s.order = slices.DeleteFunc(s.order, func(eid EntityId) bool { return eid == id })
	return true
}

func (s *Scene) Get(id EntityId) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Find returns the first entity with the given name in insertion order.
func (s *Scene) Find(name string) *Entity {
	for _, id := range s.order {
		if e := s.entities[id]; e.Name == name {
			return e
		}
	}
	return nil
}

// Each visits entities in insertion order until fn returns false.
func (s *Scene) Each(fn func(e *Entity) bool) {
	for _, id := range s.order {
		if !fn(s.entities[id]) {
			return
		}
	}
}

func (s *Scene) Len() int {
	return len(s.order)
}

// Category returns the entities of one populated category.
func (s *Scene) Category(name string) []*Entity {
	var res []*Entity
	s.Each(func(e *Entity) bool {
		if e.Category == name {
			res = append(res, e)
		}
		return true
	})
	return res
}
