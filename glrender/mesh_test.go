package glrender

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/reflector"
)

func assertIndicesInRange(t *testing.T, m *Mesh) {
	t.Helper()
	for _, i := range m.Indices {
		require.Less(t, int(i), len(m.Vertices))
	}
	switch m.Mode {
	case DrawLines:
		assert.Zero(t, len(m.Indices)%2)
	case DrawTriangles:
		assert.Zero(t, len(m.Indices)%3)
	}
}

func TestBuildMesh_Box(t *testing.T) {
	g := reflector.Geometry{Shape: reflector.ShapeBox, Params: []float32{2, 2, 2}}

	solid := BuildMesh(g, false)
	assert.Equal(t, DrawTriangles, solid.Mode)
	assert.Len(t, solid.Vertices, 8)
	assert.Len(t, solid.Indices, 36)
	assertIndicesInRange(t, solid)

	wire := BuildMesh(g, true)
	assert.Equal(t, DrawLines, wire.Mode)
	assert.Len(t, wire.Indices, 24)
	for _, v := range wire.Vertices {
		assert.InDelta(t, 1, mgl32.Abs(v.Position.X()), 1e-6)
	}
}

func TestBuildMesh_Sphere(t *testing.T) {
	g := reflector.Geometry{Shape: reflector.ShapeSphere, Params: []float32{0.4, 16, 8}}

	solid := BuildMesh(g, false)
	assert.Len(t, solid.Vertices, 9*17)
	assert.Len(t, solid.Indices, 8*16*6)
	assertIndicesInRange(t, solid)
	for _, v := range solid.Vertices {
		assert.InDelta(t, 0.4, v.Position.Len(), 1e-5)
	}

	wire := BuildMesh(g, true)
	assert.Equal(t, DrawLines, wire.Mode)
	assert.Len(t, wire.Indices, 8*16*4+16*2+8*2)
	assertIndicesInRange(t, wire)
}

func TestBuildMesh_Icosahedron(t *testing.T) {
	g := reflector.Geometry{Shape: reflector.ShapeIcosahedron, Params: []float32{2}}

	wire := BuildMesh(g, true)
	assert.Len(t, wire.Vertices, 12)
	assert.Len(t, wire.Indices, 30*2, "each of the 30 edges once")
	assertIndicesInRange(t, wire)
	for _, v := range wire.Vertices {
		assert.InDelta(t, 2, v.Position.Len(), 1e-5)
	}

	solid := BuildMesh(g, false)
	assert.Len(t, solid.Indices, 20*3)
}

func TestBuildMesh_TorusAndKnot(t *testing.T) {
	torus := BuildMesh(reflector.Geometry{Shape: reflector.ShapeTorus, Params: []float32{1, 0.25, 8, 24}}, false)
	assert.Len(t, torus.Vertices, 9*25)
	assertIndicesInRange(t, torus)
	for _, v := range torus.Vertices {
		assert.LessOrEqual(t, v.Position.Len(), float32(1.25+1e-5))
		assert.GreaterOrEqual(t, v.Position.Len(), float32(0.75-1e-5))
	}

	knot := BuildMesh(reflector.Geometry{Shape: reflector.ShapeTorusKnot, Params: []float32{0.6, 0.18, 2, 3}}, true)
	assert.Equal(t, DrawLines, knot.Mode)
	assert.Len(t, knot.Vertices, 9*65)
	assertIndicesInRange(t, knot)
	bound := reflector.Geometry{Shape: reflector.ShapeTorusKnot, Params: []float32{0.6, 0.18}}.BoundingRadius()
	for _, v := range knot.Vertices {
		assert.LessOrEqual(t, v.Position.Len(), bound+1e-4)
	}
}

func TestBuildMesh_PlaneAlwaysSolid(t *testing.T) {
	m := BuildMesh(reflector.Geometry{Shape: reflector.ShapePlane, Params: []float32{50, 50, 1}}, true)
	assert.Equal(t, DrawTriangles, m.Mode)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
	for _, v := range m.Vertices {
		assert.Zero(t, v.Position.Y())
		assert.InDelta(t, 25, mgl32.Abs(v.Position.X()), 1e-6)
	}
}

func TestBuildMesh_GridAlwaysLines(t *testing.T) {
	m := BuildMesh(reflector.Geometry{Shape: reflector.ShapeGrid, Params: []float32{100, 100, 50}}, false)
	assert.Equal(t, DrawLines, m.Mode)
	assert.Len(t, m.Indices, 51*2*2)
	assertIndicesInRange(t, m)
}

func TestBuildMesh_AxesColoured(t *testing.T) {
	m := BuildMesh(reflector.Geometry{Shape: reflector.ShapeAxes, Params: []float32{5}}, false)
	require.Len(t, m.Vertices, 6)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Vertices[0].Color)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, m.Vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Vertices[5].Color)
}

func TestBuildMesh_UnknownShape(t *testing.T) {
	m := BuildMesh(reflector.Geometry{Shape: reflector.Shape(99)}, false)
	assert.Empty(t, m.Vertices)
	assert.Empty(t, m.Indices)
}

func TestHudRect(t *testing.T) {
	x0, y0, x1, y1 := hudRect(100, 50, 800, 600, reflector.AnchorTopLeft)
	assert.InDelta(t, -0.98, x0, 1e-5)
	assert.InDelta(t, 1-2*58.0/600, y0, 1e-5)
	assert.InDelta(t, -0.73, x1, 1e-5)
	assert.InDelta(t, 1-16.0/600, y1, 1e-5)

	x0, y0, x1, y1 = hudRect(100, 50, 800, 600, reflector.AnchorCenter)
	assert.InDelta(t, -0.125, x0, 1e-5)
	assert.InDelta(t, 0.125, x1, 1e-5)
	assert.InDelta(t, -y1, y0, 1e-5, "centred vertically")
}
