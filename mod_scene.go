package reflector

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityDef is one fixed scene prop.
type EntityDef struct {
	Name      string
	Geometry  Geometry
	Color     uint32
	Wireframe bool
	Opacity   float32
	Position  mgl32.Vec3
	Rotation  mgl32.Vec3
	Spin      mgl32.Vec3

	// Attached props are positioned in camera space and follow the camera.
	Attached   bool
	Reflective bool
}

// SceneDef is the initial layout of a session before population.
type SceneDef struct {
	Sky      Sky
	Entities []EntityDef
}

// DefaultSceneDef is the mirror room: axes helper, the held ball, the ground
// mirror, the grid and the two draggable props.
func DefaultSceneDef(cfg *Config) SceneDef {
	zenith, _ := ParseHexColor(cfg.Render.SkyZenith)
	horizon, _ := ParseHexColor(cfg.Render.SkyHorizon)
	ground, _ := ParseHexColor(cfg.Render.SkyGround)
	mirror, _ := ParseHexColor(cfg.Render.MirrorColor)
	grid, _ := ParseHexColor(cfg.Render.GridColor)
	spin := cfg.Render.Spin

	return SceneDef{
		Sky: Sky{Zenith: zenith, Horizon: horizon, Ground: ground},
		Entities: []EntityDef{
			{
				Name:     "axes",
				Geometry: Geometry{Shape: ShapeAxes, Params: []float32{5}},
				Color:    0xffffff,
			},
			{
				Name:      "ball",
				Geometry:  Geometry{Shape: ShapeSphere, Params: []float32{0.4, 16, 8}},
				Color:     0x00ff00,
				Wireframe: true,
				Position:  mgl32.Vec3{0, -0.5, -1.5},
				Spin:      mgl32.Vec3{spin, spin, 0},
				Attached:  true,
			},
			{
				Name:       "mirror",
				Geometry:   Geometry{Shape: ShapePlane, Params: []float32{50, 50, 1}},
				Color:      mirror,
				Opacity:    0.6,
				Position:   mgl32.Vec3{0, -0.05, 0},
				Reflective: true,
			},
			{
				Name:      "grid",
				Geometry:  Geometry{Shape: ShapeGrid, Params: []float32{100, 100, 50}},
				Color:     grid,
				Wireframe: true,
			},
			{
				Name:     "crate",
				Geometry: Geometry{Shape: ShapeBox, Params: []float32{1, 1, 1}},
				Color:    0xc08040,
				Position: mgl32.Vec3{5, 0.5, 0},
			},
			{
				Name:      "beacon",
				Geometry:  Geometry{Shape: ShapeTorusKnot, Params: []float32{0.6, 0.18, 2, 3}},
				Color:     0x00ffff,
				Wireframe: true,
				Position:  mgl32.Vec3{-3, 1.5, -4},
			},
		},
	}
}

// LoadScene spawns every prop of def. Attached props are parented to camera.
func LoadScene(cmd *Commands, camera *Camera, def SceneDef) []*Entity {
	cmd.app.scene.Sky = def.Sky

	spawned := make([]*Entity, 0, len(def.Entities))
	for _, d := range def.Entities {
		spawned = append(spawned, spawnEntity(cmd, camera, d))
	}
	return spawned
}

func spawnEntity(cmd *Commands, camera *Camera, def EntityDef) *Entity {
	mat := NewMaterial(def.Name, def.Color)
	mat.Wireframe = def.Wireframe
	mat.Reflective = def.Reflective
	if def.Opacity > 0 {
		mat.Opacity = def.Opacity
	}

	e := NewEntity(def.Name, def.Geometry, mat)
	e.Position = def.Position
	e.Rotation = def.Rotation
	e.Spin = def.Spin
	cmd.AddEntity(e)
	if def.Attached && camera != nil {
		camera.Attach(e)
	}
	return e
}

// sceneBindings are the live-tunable properties of the default scene.
func sceneBindings(scene *Scene) []Binding {
	var bindings []Binding
	if ball := scene.Find("ball"); ball != nil {
		bindings = append(bindings,
			NumberBinding("ball", "rotation.x", &ball.Rotation[0], 0, 2*math.Pi, 0.01),
			NumberBinding("ball", "rotation.y", &ball.Rotation[1], 0, 2*math.Pi, 0.01),
			NumberBinding("ball", "spin.x", &ball.Spin[0], 0, 0.1, 0.001),
			NumberBinding("ball", "spin.y", &ball.Spin[1], 0, 0.1, 0.001),
			ColorBinding("ball", "material.color", &ball.Material.Color),
			BoolBinding("ball", "material.wireframe", &ball.Material.Wireframe),
			NumberBinding("ball", "material.opacity", &ball.Material.Opacity, 0, 1, 0.05),
		)
	}
	if mirror := scene.Find("mirror"); mirror != nil {
		bindings = append(bindings,
			ColorBinding("mirror", "material.color", &mirror.Material.Color),
			NumberBinding("mirror", "material.opacity", &mirror.Material.Opacity, 0, 1, 0.05),
		)
	}
	if grid := scene.Find("grid"); grid != nil {
		bindings = append(bindings,
			ColorBinding("grid", "material.color", &grid.Material.Color),
		)
	}
	bindings = append(bindings,
		ColorBinding("sky", "zenith", &scene.Sky.Zenith),
		ColorBinding("sky", "horizon", &scene.Sky.Horizon),
		ColorBinding("sky", "ground", &scene.Sky.Ground),
	)
	return bindings
}

// SceneModule builds the camera, the fixed props and the populated
// decoration, and declares the tunable parameters.
type SceneModule struct {
	Config *Config
	// Rand seeds the populator; nil means a fresh layout each session.
	Rand *rand.Rand
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	viewport := &Viewport{Width: cfg.Window.Width, Height: cfg.Window.Height}
	camera := NewPerspectiveCamera(cfg.Camera.Fov, viewport.Aspect(), cfg.Camera.Near, cfg.Camera.Far)
	camera.Position = mgl32.Vec3(cfg.Camera.Position)

	LoadScene(cmd, camera, DefaultSceneDef(cfg))

	cats, err := cfg.Populator.ParseCategories()
	if err != nil {
		// Validate already rejected this; only hand-built configs get here.
		app.Logger().Errorf("populator categories: %v", err)
	}
	populator := NewPopulator(cfg.Populator.HalfExtent, cats, mod.Rand)
	entities, err := populator.Populate(cmd.AddEntity)
	if err != nil {
		app.Logger().Warnf("populate: %v", err)
	}
	app.Logger().Infof("populated %d decorative entities", len(entities))

	// Bindings point into the entities, so build them once they are in the scene.
	app.FlushCommands()
	binder := NewParameterBinder(app.Logger(), sceneBindings(app.Scene())...)

	cmd.AddResources(camera, viewport, NewMenu(), populator, binder)
}
