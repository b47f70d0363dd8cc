package reflector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	VSync  bool   `mapstructure:"vsync"`
}

type CameraConfig struct {
	Fov      float32    `mapstructure:"fov"`
	Near     float32    `mapstructure:"near"`
	Far      float32    `mapstructure:"far"`
	Position [3]float32 `mapstructure:"position"`
}

type ControlsConfig struct {
	// Step is the distance of one movement key press.
	Step             float32  `mapstructure:"step"`
	LookSensitivity  float32  `mapstructure:"lookSensitivity"`
	OrbitDistance    float32  `mapstructure:"orbitDistance"`
	OrbitRotateSpeed float32  `mapstructure:"orbitRotateSpeed"`
	OrbitZoomSpeed   float32  `mapstructure:"orbitZoomSpeed"`
	Draggables       []string `mapstructure:"draggables"`
}

type CategoryConfig struct {
	Name      string  `mapstructure:"name"`
	Shape     string  `mapstructure:"shape"`
	Count     int     `mapstructure:"count"`
	SizeMin   float32 `mapstructure:"sizeMin"`
	SizeMax   float32 `mapstructure:"sizeMax"`
	YMin      float32 `mapstructure:"yMin"`
	YMax      float32 `mapstructure:"yMax"`
	Color     string  `mapstructure:"color"`
	Wireframe bool    `mapstructure:"wireframe"`
}

type PopulatorConfig struct {
	// HalfExtent bounds x and z to [-HalfExtent, HalfExtent].
	HalfExtent float32          `mapstructure:"halfExtent"`
	Categories []CategoryConfig `mapstructure:"categories"`
}

type RenderConfig struct {
	Spin        float32 `mapstructure:"spin"`
	ShowStats   bool    `mapstructure:"showStats"`
	SkyZenith   string  `mapstructure:"skyZenith"`
	SkyHorizon  string  `mapstructure:"skyHorizon"`
	SkyGround   string  `mapstructure:"skyGround"`
	MirrorColor string  `mapstructure:"mirrorColor"`
	GridColor   string  `mapstructure:"gridColor"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type Config struct {
	Window    WindowConfig    `mapstructure:"window"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Controls  ControlsConfig  `mapstructure:"controls"`
	Populator PopulatorConfig `mapstructure:"populator"`
	Render    RenderConfig    `mapstructure:"render"`
	Log       LogConfig       `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "reflector")
	v.SetDefault("window.vsync", true)

	v.SetDefault("camera.fov", 75)
	v.SetDefault("camera.near", 0.1)
	v.SetDefault("camera.far", 1000)
	v.SetDefault("camera.position", []float32{0, 1, 2})

	v.SetDefault("controls.step", 0.25)
	v.SetDefault("controls.lookSensitivity", 0.1)
	v.SetDefault("controls.orbitDistance", 5)
	v.SetDefault("controls.orbitRotateSpeed", 0.005)
	v.SetDefault("controls.orbitZoomSpeed", 1)
	v.SetDefault("controls.draggables", []string{"crate", "beacon"})

	v.SetDefault("populator.halfExtent", 50)
	v.SetDefault("populator.categories", []map[string]any{
		{
			"name": "spheres", "shape": "sphere", "count": 80,
			"sizeMin": 0.2, "sizeMax": 1.0, "yMin": 0, "yMax": 5,
			"color": "#ff0000", "wireframe": true,
		},
		{
			"name": "tori", "shape": "torus", "count": 80,
			"sizeMin": 0.3, "sizeMax": 1.2, "yMin": 0, "yMax": 5,
			"color": "#ffff00", "wireframe": true,
		},
	})

	v.SetDefault("render.spin", 0.01)
	v.SetDefault("render.showStats", true)
	v.SetDefault("render.skyZenith", "#3a9a4a")
	v.SetDefault("render.skyHorizon", "#0a2a12")
	v.SetDefault("render.skyGround", "#050a06")
	v.SetDefault("render.mirrorColor", "#222222")
	v.SetDefault("render.gridColor", "#0000ff")

	v.SetDefault("log.debug", false)
}

// LoadConfig reads defaults, then the optional file at path, then
// REFLECTOR_* environment overrides. The returned viper instance is kept
// for watching the file.
func LoadConfig(path string) (*Config, *viper.Viper, error) {
	return loadConfig(path, nil)
}

// Flags declares the command line: --config and --debug.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("reflector", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (json, yaml or toml)")
	fs.Bool("debug", false, "debug logging")
	return fs
}

// LoadConfigFlags loads the file named by --config; --debug overrides
// log.debug when given.
func LoadConfigFlags(fs *pflag.FlagSet) (*Config, *viper.Viper, error) {
	path, err := fs.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("config flag: %w", err)
	}
	return loadConfig(path, fs)
}

func loadConfig(path string, fs *pflag.FlagSet) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if fs != nil {
		if f := fs.Lookup("debug"); f != nil {
			if err := v.BindPFlag("log.debug", f); err != nil {
				return nil, nil, fmt.Errorf("bind debug flag: %w", err)
			}
		}
	}

	v.SetEnvPrefix("REFLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, v, nil
}

func DefaultConfig() *Config {
	cfg, _, err := LoadConfig("")
	if err != nil {
		panic(err)
	}
	return cfg
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Controls.Step <= 0 {
		errs = append(errs, fmt.Errorf("controls.step must be positive, got %v", c.Controls.Step))
	}
	if c.Populator.HalfExtent <= 0 {
		errs = append(errs, fmt.Errorf("populator.halfExtent must be positive, got %v", c.Populator.HalfExtent))
	}
	for _, cat := range c.Populator.Categories {
		if _, err := cat.Category(); err != nil {
			errs = append(errs, err)
		}
	}
	for key, hex := range map[string]string{
		"render.skyZenith":   c.Render.SkyZenith,
		"render.skyHorizon":  c.Render.SkyHorizon,
		"render.skyGround":   c.Render.SkyGround,
		"render.mirrorColor": c.Render.MirrorColor,
		"render.gridColor":   c.Render.GridColor,
	} {
		if _, err := ParseHexColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Category converts the config entry into a populator category.
func (c CategoryConfig) Category() (Category, error) {
	shape, err := ParseShape(c.Shape)
	if err != nil {
		return Category{}, fmt.Errorf("category %q: %w", c.Name, err)
	}
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return Category{}, fmt.Errorf("category %q: %w", c.Name, err)
	}
	if c.Count < 0 {
		return Category{}, fmt.Errorf("category %q: negative count %d", c.Name, c.Count)
	}
	if c.SizeMin <= 0 || c.SizeMin > c.SizeMax {
		return Category{}, fmt.Errorf("category %q: size range [%v, %v]", c.Name, c.SizeMin, c.SizeMax)
	}
	if c.YMin > c.YMax {
		return Category{}, fmt.Errorf("category %q: y range [%v, %v]", c.Name, c.YMin, c.YMax)
	}
	return Category{
		Name:      c.Name,
		Shape:     shape,
		Count:     c.Count,
		SizeMin:   c.SizeMin,
		SizeMax:   c.SizeMax,
		YMin:      c.YMin,
		YMax:      c.YMax,
		Color:     color,
		Wireframe: c.Wireframe,
	}, nil
}

func (c PopulatorConfig) ParseCategories() ([]Category, error) {
	cats := make([]Category, 0, len(c.Categories))
	for _, cc := range c.Categories {
		cat, err := cc.Category()
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}
