package reflector

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	for in, want := range map[string]uint32{
		"#ff0000":   0xff0000,
		"00ff00":    0x00ff00,
		"0x0000FF":  0x0000ff,
		" #0a2a12 ": 0x0a2a12,
	} {
		got, err := ParseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "#fff", "#gg0000", "#ff00001"} {
		_, err := ParseHexColor(bad)
		assert.ErrorIs(t, err, ErrBadColor, bad)
	}

	assert.Equal(t, "#00ff80", FormatHexColor(0x00ff80))
}

func TestParameterBinder_Apply(t *testing.T) {
	m := NewMaterial("ball", 0x00ff00)
	spin := float32(0.01)
	binder := NewParameterBinder(nil,
		ColorBinding("ball", "material.color", &m.Color),
		BoolBinding("ball", "material.wireframe", &m.Wireframe),
		NumberBinding("ball", "spin.x", &spin, 0, 0.1, 0.001),
	)

	require.NoError(t, binder.Apply("ball.material.color", "#ff0000"))
	assert.Equal(t, uint32(0xff0000), m.Color)

	require.NoError(t, binder.Apply("ball.material.color", float64(0x0000ff)))
	assert.Equal(t, uint32(0x0000ff), m.Color)

	require.NoError(t, binder.Apply("ball.material.wireframe", true))
	assert.True(t, m.Wireframe)
	require.NoError(t, binder.Apply("ball.material.wireframe", "false"))
	assert.False(t, m.Wireframe)

	require.NoError(t, binder.Apply("ball.spin.x", 0.05))
	assert.InDelta(t, 0.05, spin, 1e-6)
	require.NoError(t, binder.Apply("ball.spin.x", "0.02"))
	assert.InDelta(t, 0.02, spin, 1e-6)
}

func TestParameterBinder_BadValuesLeaveProperty(t *testing.T) {
	m := NewMaterial("ball", 0x00ff00)
	spin := float32(0.01)
	binder := NewParameterBinder(nil,
		ColorBinding("ball", "material.color", &m.Color),
		NumberBinding("ball", "spin.x", &spin, 0, 0.1, 0.001),
	)

	assert.ErrorIs(t, binder.Apply("ball.material.color", "#nothex"), ErrBadColor)
	assert.ErrorIs(t, binder.Apply("ball.material.color", 1.5), ErrBadColor)
	assert.ErrorIs(t, binder.Apply("ball.material.color", -1.0), ErrBadColor)
	assert.ErrorIs(t, binder.Apply("ball.material.color", float64(0x1000000)), ErrBadColor)
	assert.Error(t, binder.Apply("ball.spin.x", "fast"))
	assert.ErrorIs(t, binder.Apply("ball.nope", 1), ErrUnknownBinding)

	assert.Equal(t, uint32(0x00ff00), m.Color)
	assert.Equal(t, float32(0.01), spin)
}

func TestParameterBinder_MountWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	m := NewMaterial("mirror", 0x222222)
	binder := NewParameterBinder(NewLoggerTo(&buf, "", false),
		ColorBinding("mirror", "material.color", &m.Color),
		NumberBinding("mirror", "material.opacity", &m.Opacity, 0, 1, 0.05),
	)
	panel := newRecordingPanel()

	binder.Mount(panel)

	assert.Equal(t, []string{"mirror.material.color", "mirror.material.opacity"}, panel.order)
	assert.Equal(t, "#222222", panel.entries["mirror.material.color"].binding.Value())
	assert.Equal(t, 1.0, panel.entries["mirror.material.opacity"].binding.Value())

	panel.change("mirror.material.color", "#ffffff")
	panel.change("mirror.material.opacity", 0.25)
	assert.Equal(t, uint32(0xffffff), m.Color)
	assert.Equal(t, float32(0.25), m.Opacity)

	panel.change("mirror.material.color", "bogus")
	assert.Equal(t, uint32(0xffffff), m.Color)
	assert.Contains(t, buf.String(), "panel change mirror.material.color")
}

func TestParametersModule_MountsSceneBindings(t *testing.T) {
	panel := newRecordingPanel()
	app := NewApp()
	app.UseModules(
		SceneModule{Config: DefaultConfig()},
		ParametersModule{Panel: panel},
	)

	assert.Contains(t, panel.order, "ball.material.color")
	assert.Contains(t, panel.order, "sky.horizon")

	panel.change("ball.material.color", "#123456")
	assert.Equal(t, uint32(0x123456), app.Scene().Find("ball").Material.Color)

	panel.change("sky.horizon", "#000000")
	assert.Zero(t, app.Scene().Sky.Horizon)
}

func TestParametersModule_RequiresBinder(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.UseModules(ParametersModule{Panel: newRecordingPanel()})
	})
}
