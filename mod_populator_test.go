package reflector

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCategories(t *testing.T) []Category {
	t.Helper()
	cats, err := DefaultConfig().Populator.ParseCategories()
	require.NoError(t, err)
	return cats
}

func TestPopulator_Populate(t *testing.T) {
	scene := NewScene()
	p := NewPopulator(50, defaultCategories(t), rand.New(rand.NewPCG(1, 1)))

	entities, err := p.Populate(scene.Add)
	require.NoError(t, err)

	assert.Len(t, entities, 160)
	assert.Equal(t, 160, scene.Len())
	assert.True(t, p.Populated())

	for _, name := range []string{"spheres", "tori"} {
		members := scene.Category(name)
		assert.Len(t, members, 80, name)
		mat := p.Material(name)
		require.NotNil(t, mat)
		assert.True(t, mat.Wireframe)
		for _, e := range members {
			assert.Same(t, mat, e.Material, "one material per category")
			assert.InDelta(t, 0, e.Position.X(), 50)
			assert.InDelta(t, 0, e.Position.Z(), 50)
			assert.GreaterOrEqual(t, e.Position.Y(), float32(0))
			assert.LessOrEqual(t, e.Position.Y(), float32(5))
		}
	}
	assert.Equal(t, uint32(0xff0000), p.Material("spheres").Color)
	assert.Equal(t, ShapeTorus, p.Entities("tori")[0].Geometry.Shape)
}

func TestPopulator_SizesWithinRange(t *testing.T) {
	cats := []Category{{Name: "boxes", Shape: ShapeBox, Count: 30, SizeMin: 0.5, SizeMax: 0.75, YMin: 1, YMax: 1}}
	p := NewPopulator(10, cats, rand.New(rand.NewPCG(7, 7)))

	entities, err := p.Populate(NewScene().Add)
	require.NoError(t, err)
	for _, e := range entities {
		size := e.Geometry.Params[0]
		assert.GreaterOrEqual(t, size, float32(0.5))
		assert.LessOrEqual(t, size, float32(0.75))
		assert.Equal(t, float32(1), e.Position.Y())
	}
}

func TestPopulator_OnlyOnce(t *testing.T) {
	scene := NewScene()
	p := NewPopulator(50, defaultCategories(t), nil)
	_, err := p.Populate(scene.Add)
	require.NoError(t, err)

	again, err := p.Populate(scene.Add)
	assert.ErrorIs(t, err, ErrAlreadyPopulated)
	assert.Nil(t, again)
	assert.Equal(t, 160, scene.Len())
}

func TestPopulator_SeededLayoutsRepeat(t *testing.T) {
	layout := func(seed uint64) []float32 {
		p := NewPopulator(50, defaultCategories(t), rand.New(rand.NewPCG(seed, seed)))
		entities, err := p.Populate(NewScene().Add)
		require.NoError(t, err)
		var xs []float32
		for _, e := range entities[:10] {
			xs = append(xs, e.Position.X())
		}
		return xs
	}

	assert.Equal(t, layout(3), layout(3))
	assert.NotEqual(t, layout(3), layout(4))
}
