package reflector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	NumberValue ValueKind = iota
	ColorValue
	BoolValue
)

// Binding exposes one property of a live object to a panel. Writes go
// straight to the object.
type Binding struct {
	Target   string
	Property string
	Kind     ValueKind

	// Numeric range and increment, for NumberValue bindings.
	Min, Max, Step float64

	get func() any
	set func(any) error
}

func (b Binding) Key() string {
	return b.Target + "." + b.Property
}

// Value reads the current value: float64, "#rrggbb" or bool.
func (b Binding) Value() any {
	return b.get()
}

func NumberBinding(target, property string, ptr *float32, min, max, step float64) Binding {
	return Binding{
		Target: target, Property: property, Kind: NumberValue,
		Min: min, Max: max, Step: step,
		get: func() any { return float64(*ptr) },
		set: func(v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			*ptr = float32(f)
			return nil
		},
	}
}

func ColorBinding(target, property string, ptr *uint32) Binding {
	return Binding{
		Target: target, Property: property, Kind: ColorValue,
		Min: 0, Max: 0xffffff,
		get: func() any { return FormatHexColor(*ptr) },
		set: func(v any) error {
			var c uint32
			switch val := v.(type) {
			case string:
				parsed, err := ParseHexColor(val)
				if err != nil {
					return err
				}
				c = parsed
			case uint32:
				c = val
			case int:
				c = uint32(val)
			case float64:
				// JSON numbers decode as float64.
				if val < 0 || val > 0xffffff || val != math.Trunc(val) {
					return fmt.Errorf("%w: %v", ErrBadColor, val)
				}
				c = uint32(val)
			default:
				return fmt.Errorf("color value of type %T", v)
			}
			*ptr = c & 0xffffff
			return nil
		},
	}
}

func BoolBinding(target, property string, ptr *bool) Binding {
	return Binding{
		Target: target, Property: property, Kind: BoolValue,
		get: func() any { return *ptr },
		set: func(v any) error {
			switch val := v.(type) {
			case bool:
				*ptr = val
			case string:
				b, err := strconv.ParseBool(val)
				if err != nil {
					return err
				}
				*ptr = b
			default:
				return fmt.Errorf("bool value of type %T", v)
			}
			return nil
		},
	}
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	}
	return 0, fmt.Errorf("number value of type %T", v)
}

var ErrBadColor = errors.New("bad hex color")

// ParseHexColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseHexColor(s string) (uint32, error) {
	hex := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return uint32(v), nil
}

func FormatHexColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}

// Panel renders bindings as controls and calls onChange with the edited value.
// Range clamping is the panel's job.
type Panel interface {
	Add(b Binding, onChange func(value any))
}

var ErrUnknownBinding = errors.New("unknown binding")

type ParameterBinder struct {
	bindings []Binding
	index    map[string]int
	logger   Logger
}

func NewParameterBinder(logger Logger, bindings ...Binding) *ParameterBinder {
	if logger == nil {
		logger = NewNopLogger()
	}
	pb := &ParameterBinder{
		bindings: bindings,
		index:    make(map[string]int, len(bindings)),
		logger:   logger,
	}
	for i, b := range bindings {
		pb.index[b.Key()] = i
	}
	return pb
}

func (pb *ParameterBinder) Bindings() []Binding {
	return pb.bindings
}

// Mount hands every binding to panel once.
func (pb *ParameterBinder) Mount(panel Panel) {
	for _, b := range pb.bindings {
		key := b.Key()
		panel.Add(b, func(value any) {
			if err := pb.Apply(key, value); err != nil {
				pb.logger.Warnf("panel change %s: %v", key, err)
			}
		})
	}
}

// Apply writes value through to the bound property. On error the property is
// left untouched.
func (pb *ParameterBinder) Apply(key string, value any) error {
	i, ok := pb.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBinding, key)
	}
	if err := pb.bindings[i].set(value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	pb.logger.Debugf("param %s = %v", key, value)
	return nil
}

type ParametersModule struct {
	Panel Panel
}

// Install mounts the session's bindings onto the panel. Panels that queue
// changes off the frame thread get drained at the start of every frame.
func (m ParametersModule) Install(app *App, cmd *Commands) {
	binder, ok := Resource[ParameterBinder](app)
	if !ok {
		panic("ParametersModule requires a ParameterBinder; install SceneModule first")
	}
	if m.Panel == nil {
		return
	}
	binder.Mount(m.Panel)
	if d, ok := m.Panel.(interface{ Drain() int }); ok {
		app.UseSystem(
			System(func() { d.Drain() }).
				InStage(Prelude),
		)
	}
}
