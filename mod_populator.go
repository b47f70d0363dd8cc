package reflector

import (
	"errors"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Category is one kind of decorative entity: a shape, how many to place,
// the range of its size parameter and the vertical band it lives in.
type Category struct {
	Name      string
	Shape     Shape
	Count     int
	SizeMin   float32
	SizeMax   float32
	YMin      float32
	YMax      float32
	Color     uint32
	Wireframe bool
}

var ErrAlreadyPopulated = errors.New("scene already populated")

// Populator scatters decorative entities once per session. Layouts differ
// between sessions unless the random source is seeded.
type Populator struct {
	halfExtent float32
	categories []Category
	rng        *rand.Rand

	populated bool
	materials map[string]*Material
	entities  map[string][]*Entity
}

func NewPopulator(halfExtent float32, categories []Category, rng *rand.Rand) *Populator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Populator{
		halfExtent: halfExtent,
		categories: categories,
		rng:        rng,
		materials:  make(map[string]*Material),
		entities:   make(map[string][]*Entity),
	}
}

// Populate creates every category's entities through add. It can run only once.
func (p *Populator) Populate(add func(*Entity) EntityId) ([]*Entity, error) {
	if p.populated {
		return nil, ErrAlreadyPopulated
	}
	p.populated = true

	var all []*Entity
	for _, cat := range p.categories {
		// One material per category keeps every instance in the same draw state.
		mat := NewMaterial(cat.Name, cat.Color)
		mat.Wireframe = cat.Wireframe
		p.materials[cat.Name] = mat

		for i := 0; i < cat.Count; i++ {
			e := NewEntity(cat.Name, p.geometry(cat), mat)
			e.Category = cat.Name
			e.Position = mgl32.Vec3{
				p.uniform(-p.halfExtent, p.halfExtent),
				p.uniform(cat.YMin, cat.YMax),
				p.uniform(-p.halfExtent, p.halfExtent),
			}
			add(e)
			p.entities[cat.Name] = append(p.entities[cat.Name], e)
			all = append(all, e)
		}
	}
	return all, nil
}

func (p *Populator) Populated() bool {
	return p.populated
}

// Material returns the material shared by a category.
func (p *Populator) Material(category string) *Material {
	return p.materials[category]
}

func (p *Populator) Entities(category string) []*Entity {
	return p.entities[category]
}

func (p *Populator) HalfExtent() float32 {
	return p.halfExtent
}

func (p *Populator) uniform(lo, hi float32) float32 {
	return lo + (hi-lo)*p.rng.Float32()
}

func (p *Populator) geometry(cat Category) Geometry {
	size := p.uniform(cat.SizeMin, cat.SizeMax)
	switch cat.Shape {
	case ShapeSphere:
		return Geometry{Shape: ShapeSphere, Params: []float32{size, 16, 8}}
	case ShapeTorus:
		return Geometry{Shape: ShapeTorus, Params: []float32{size, size * 0.3, 8, 24}}
	case ShapeTorusKnot:
		return Geometry{Shape: ShapeTorusKnot, Params: []float32{size, size * 0.3, 2, 3}}
	case ShapeBox:
		return Geometry{Shape: ShapeBox, Params: []float32{size, size, size}}
	}
	return Geometry{Shape: cat.Shape, Params: []float32{size}}
}
