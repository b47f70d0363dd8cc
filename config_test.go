package reflector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, float32(75), cfg.Camera.Fov)
	assert.Equal(t, [3]float32{0, 1, 2}, cfg.Camera.Position)
	assert.Equal(t, float32(0.25), cfg.Controls.Step)
	assert.Equal(t, []string{"crate", "beacon"}, cfg.Controls.Draggables)
	assert.Equal(t, float32(50), cfg.Populator.HalfExtent)
	require.Len(t, cfg.Populator.Categories, 2)
	assert.Equal(t, 80, cfg.Populator.Categories[0].Count)
	assert.Equal(t, "#3a9a4a", cfg.Render.SkyZenith)
	assert.Equal(t, "#0a2a12", cfg.Render.SkyHorizon)
	assert.False(t, cfg.Log.Debug)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := writeConfig(t, "reflector.yaml", `
window:
  width: 640
controls:
  step: 0.5
render:
  skyHorizon: "#000000"
`)

	cfg, v, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, float32(0.5), cfg.Controls.Step)
	assert.Equal(t, "#000000", cfg.Render.SkyHorizon)
	assert.Equal(t, "#3a9a4a", cfg.Render.SkyZenith)
	assert.Equal(t, path, v.ConfigFileUsed())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REFLECTOR_WINDOW_TITLE", "from env")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from env", cfg.Window.Title)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "bad.yaml", `
controls:
  step: 0
render:
  gridColor: "blue"
`)

	_, _, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrBadColor)
	assert.Contains(t, err.Error(), "controls.step")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigFlags(t *testing.T) {
	path := writeConfig(t, "reflector.json", `{"window": {"title": "json"}}`)
	fs := Flags()
	require.NoError(t, fs.Parse([]string{"-c", path, "--debug"}))

	cfg, _, err := LoadConfigFlags(fs)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Window.Title)
	assert.True(t, cfg.Log.Debug)
}

func TestCategoryConfig_Category(t *testing.T) {
	good := CategoryConfig{Name: "x", Shape: "box", Count: 3, SizeMin: 1, SizeMax: 2, YMin: 0, YMax: 1, Color: "#010203"}
	cat, err := good.Category()
	require.NoError(t, err)
	assert.Equal(t, ShapeBox, cat.Shape)
	assert.Equal(t, uint32(0x010203), cat.Color)

	for name, mutate := range map[string]func(*CategoryConfig){
		"shape": func(c *CategoryConfig) { c.Shape = "teapot" },
		"color": func(c *CategoryConfig) { c.Color = "red" },
		"count": func(c *CategoryConfig) { c.Count = -1 },
		"size":  func(c *CategoryConfig) { c.SizeMin = 3 },
		"y":     func(c *CategoryConfig) { c.YMin = 2 },
	} {
		bad := good
		mutate(&bad)
		_, err := bad.Category()
		assert.Error(t, err, name)
	}
}

func TestParseShape(t *testing.T) {
	for shape, name := range shapeNames {
		got, err := ParseShape(name)
		require.NoError(t, err)
		assert.Equal(t, shape, got)
		assert.Equal(t, name, shape.String())
	}
	_, err := ParseShape("cone")
	assert.Error(t, err)
}
