package glrender

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/reflector"
)

// DrawMode is the GL primitive a mesh's indices describe.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines
)

// Vertex is interleaved position and color, the layout uploaded to the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Mesh is CPU-side geometry built from a reflector.Geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Mode     DrawMode
}

var white = mgl32.Vec3{1, 1, 1}

// BuildMesh tessellates g. Wireframe meshes are line lists; solid ones are
// triangle lists. Grids and axes are always lines, planes always solid.
func BuildMesh(g reflector.Geometry, wireframe bool) *Mesh {
	p := func(i int, fallback float32) float32 {
		if i < len(g.Params) {
			return g.Params[i]
		}
		return fallback
	}

	switch g.Shape {
	case reflector.ShapeSphere:
		return sphere(p(0, 1), int(p(1, 16)), int(p(2, 8)), wireframe)
	case reflector.ShapeTorus:
		return torus(p(0, 1), p(1, 0.4), int(p(2, 8)), int(p(3, 24)), wireframe)
	case reflector.ShapeTorusKnot:
		return torusKnot(p(0, 1), p(1, 0.4), p(2, 2), p(3, 3), 64, 8, wireframe)
	case reflector.ShapeBox:
		return box(p(0, 1), p(1, 1), p(2, 1), wireframe)
	case reflector.ShapeIcosahedron:
		return icosahedron(p(0, 1), wireframe)
	case reflector.ShapePlane:
		return plane(p(0, 1), p(1, 1))
	case reflector.ShapeGrid:
		return grid(p(0, 1), p(1, 1), int(p(2, 10)))
	case reflector.ShapeAxes:
		return axes(p(0, 1))
	}
	return &Mesh{Mode: DrawLines}
}

// surface samples fn over a (rows+1) x (cols+1) lattice of (u, v) in [0,1]
// and connects neighbours either as quads split into triangles or as lines.
func surface(rows, cols int, wireframe bool, fn func(u, v float32) mgl32.Vec3) *Mesh {
	rows = max(rows, 1)
	cols = max(cols, 1)

	m := &Mesh{Mode: DrawTriangles}
	if wireframe {
		m.Mode = DrawLines
	}
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			u := float32(c) / float32(cols)
			v := float32(r) / float32(rows)
			m.Vertices = append(m.Vertices, Vertex{Position: fn(u, v), Color: white})
		}
	}

	at := func(r, c int) uint32 { return uint32(r*(cols+1) + c) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a, b, d, e := at(r, c), at(r, c+1), at(r+1, c), at(r+1, c+1)
			if wireframe {
				m.Indices = append(m.Indices, a, b, a, d)
			} else {
				m.Indices = append(m.Indices, a, d, b, b, d, e)
			}
		}
	}
	if wireframe {
		// Close the last ring and the last meridian.
		for c := 0; c < cols; c++ {
			m.Indices = append(m.Indices, at(rows, c), at(rows, c+1))
		}
		for r := 0; r < rows; r++ {
			m.Indices = append(m.Indices, at(r, cols), at(r+1, cols))
		}
	}
	return m
}

func sphere(radius float32, widthSegments, heightSegments int, wireframe bool) *Mesh {
	return surface(heightSegments, widthSegments, wireframe, func(u, v float32) mgl32.Vec3 {
		phi := float64(u) * 2 * math.Pi
		theta := float64(v) * math.Pi
		return mgl32.Vec3{
			-radius * float32(math.Cos(phi)*math.Sin(theta)),
			radius * float32(math.Cos(theta)),
			radius * float32(math.Sin(phi)*math.Sin(theta)),
		}
	})
}

func torus(radius, tube float32, radialSegments, tubularSegments int, wireframe bool) *Mesh {
	return surface(radialSegments, tubularSegments, wireframe, func(u, v float32) mgl32.Vec3 {
		a := float64(u) * 2 * math.Pi
		b := float64(v) * 2 * math.Pi
		ring := float64(radius) + float64(tube)*math.Cos(b)
		return mgl32.Vec3{
			float32(ring * math.Cos(a)),
			float32(ring * math.Sin(a)),
			tube * float32(math.Sin(b)),
		}
	})
}

// torusKnotPoint is the (p, q) knot curve at parameter t in radians.
func torusKnotPoint(t, p, q, radius float64) mgl32.Vec3 {
	qp := q / p * t
	cs := math.Cos(qp)
	return mgl32.Vec3{
		float32(radius * (2 + cs) * 0.5 * math.Cos(t)),
		float32(radius * (2 + cs) * 0.5 * math.Sin(t)),
		float32(radius * math.Sin(qp) * 0.5),
	}
}

func torusKnot(radius, tube, p, q float32, tubularSegments, radialSegments int, wireframe bool) *Mesh {
	if p == 0 {
		p = 2
	}
	return surface(radialSegments, tubularSegments, wireframe, func(u, v float32) mgl32.Vec3 {
		t := float64(u) * float64(p) * 2 * math.Pi
		p1 := torusKnotPoint(t, float64(p), float64(q), float64(radius))
		p2 := torusKnotPoint(t+0.01, float64(p), float64(q), float64(radius))

		// Frenet-like frame around the curve.
		tangent := p2.Sub(p1)
		normal := p2.Add(p1)
		binormal := tangent.Cross(normal).Normalize()
		normal = binormal.Cross(tangent).Normalize()

		a := float64(v) * 2 * math.Pi
		cx := -tube * float32(math.Cos(a))
		cy := tube * float32(math.Sin(a))
		return p1.Add(normal.Mul(cx)).Add(binormal.Mul(cy))
	})
}

func box(w, h, d float32, wireframe bool) *Mesh {
	x, y, z := w/2, h/2, d/2
	m := &Mesh{}
	for _, c := range [8]mgl32.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	} {
		m.Vertices = append(m.Vertices, Vertex{Position: c, Color: white})
	}
	if wireframe {
		m.Mode = DrawLines
		m.Indices = []uint32{
			0, 1, 1, 2, 2, 3, 3, 0,
			4, 5, 5, 6, 6, 7, 7, 4,
			0, 4, 1, 5, 2, 6, 3, 7,
		}
		return m
	}
	m.Mode = DrawTriangles
	m.Indices = []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return m
}

var icosahedronFaces = [20][3]uint32{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icosahedron(radius float32, wireframe bool) *Mesh {
	t := float32((1 + math.Sqrt(5)) / 2)
	m := &Mesh{}
	for _, c := range [12]mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	} {
		m.Vertices = append(m.Vertices, Vertex{Position: c.Normalize().Mul(radius), Color: white})
	}

	if !wireframe {
		m.Mode = DrawTriangles
		for _, f := range icosahedronFaces {
			m.Indices = append(m.Indices, f[0], f[1], f[2])
		}
		return m
	}

	// Every edge is shared by two faces; emit it once.
	m.Mode = DrawLines
	seen := make(map[[2]uint32]bool)
	for _, f := range icosahedronFaces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			if seen[[2]uint32{a, b}] {
				continue
			}
			seen[[2]uint32{a, b}] = true
			m.Indices = append(m.Indices, a, b)
		}
	}
	return m
}

// plane is a solid quad on the XZ plane facing +Y.
func plane(w, d float32) *Mesh {
	x, z := w/2, d/2
	return &Mesh{
		Mode: DrawTriangles,
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-x, 0, -z}, Color: white},
			{Position: mgl32.Vec3{x, 0, -z}, Color: white},
			{Position: mgl32.Vec3{x, 0, z}, Color: white},
			{Position: mgl32.Vec3{-x, 0, z}, Color: white},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// grid is a line lattice on the XZ plane with segments cells per side.
func grid(w, d float32, segments int) *Mesh {
	segments = max(segments, 1)
	x, z := w/2, d/2
	m := &Mesh{Mode: DrawLines}
	line := func(a, b mgl32.Vec3) {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: a, Color: white}, Vertex{Position: b, Color: white})
		m.Indices = append(m.Indices, base, base+1)
	}
	for i := 0; i <= segments; i++ {
		f := float32(i) / float32(segments)
		lx := -x + f*w
		lz := -z + f*d
		line(mgl32.Vec3{lx, 0, -z}, mgl32.Vec3{lx, 0, z})
		line(mgl32.Vec3{-x, 0, lz}, mgl32.Vec3{x, 0, lz})
	}
	return m
}

// axes is the X (red), Y (green) and Z (blue) axis helper.
func axes(size float32) *Mesh {
	m := &Mesh{Mode: DrawLines}
	for _, c := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			Vertex{Position: mgl32.Vec3{}, Color: c},
			Vertex{Position: c.Mul(size), Color: c},
		)
		m.Indices = append(m.Indices, base, base+1)
	}
	return m
}
