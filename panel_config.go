package reflector

import (
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const paramsKey = "params"

type panelControl struct {
	binding  Binding
	onChange func(any)
	last     any
}

type panelChange struct {
	control *panelControl
	value   any
}

// ConfigPanel exposes bindings as "params.<target>.<property>" keys of the
// config file. Edits are picked up by the watcher goroutine, clamped, queued,
// and handed to the bindings by Drain on the frame thread.
type ConfigPanel struct {
	v      *viper.Viper
	logger Logger

	mu       sync.Mutex
	controls []*panelControl
	pending  []panelChange
}

var _ Panel = (*ConfigPanel)(nil)

func NewConfigPanel(v *viper.Viper, logger Logger) *ConfigPanel {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &ConfigPanel{v: v, logger: logger}
}

func (p *ConfigPanel) Add(b Binding, onChange func(value any)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := paramsKey + "." + b.Key()
	c := &panelControl{binding: b, onChange: onChange, last: b.Value()}
	p.controls = append(p.controls, c)

	if p.v.IsSet(key) {
		// Values already in the file win over the scene's initial ones.
		p.queue(c, p.v.Get(key))
	}
}

// Watch starts following the config file.
func (p *ConfigPanel) Watch() {
	p.v.OnConfigChange(func(e fsnotify.Event) {
		p.logger.Debugf("config changed: %s", e.Name)
		p.Reload()
	})
	p.v.WatchConfig()
}

// Reload compares every bound key with the last seen value and queues the
// ones that changed.
func (p *ConfigPanel) Reload() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, c := range p.controls {
		key := paramsKey + "." + c.binding.Key()
		if !p.v.IsSet(key) {
			continue
		}
		if p.queue(c, p.v.Get(key)) {
			n++
		}
	}
	return n
}

// queue must be called with mu held.
func (p *ConfigPanel) queue(c *panelControl, raw any) bool {
	value := p.clamp(c.binding, raw)
	if reflect.DeepEqual(value, c.last) {
		return false
	}
	c.last = value
	p.pending = append(p.pending, panelChange{control: c, value: value})
	return true
}

func (p *ConfigPanel) clamp(b Binding, raw any) any {
	if b.Kind != NumberValue {
		return raw
	}
	f, err := toFloat(raw)
	if err != nil {
		return raw
	}
	if b.Max > b.Min {
		if f < b.Min {
			f = b.Min
		}
		if f > b.Max {
			f = b.Max
		}
	}
	return f
}

// Drain delivers queued changes in arrival order and returns how many ran.
func (p *ConfigPanel) Drain() int {
	p.mu.Lock()
	changes := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, ch := range changes {
		ch.control.onChange(ch.value)
	}
	return len(changes)
}
