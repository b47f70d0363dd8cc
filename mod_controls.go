package reflector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type ControlMode int

const (
	ModeUnlocked ControlMode = iota
	ModeLockedFPS
	ModeFreeOrbitDrag
)

func (m ControlMode) String() string {
	switch m {
	case ModeUnlocked:
		return "unlocked"
	case ModeLockedFPS:
		return "locked-fps"
	case ModeFreeOrbitDrag:
		return "free-orbit+drag"
	}
	return fmt.Sprintf("ControlMode(%d)", int(m))
}

type ControlModeOptions struct {
	Camera   *Camera
	Capture  PointerCapture
	Overlay  Overlay
	Hub      *InputHub
	Viewport *Viewport
	Router   *InputRouter

	// Draggables are the entities drag controls may move in free-orbit mode.
	Draggables []*Entity

	// OrbitDistance places the orbit target in front of the camera.
	OrbitDistance    float32
	LookSensitivity  float32
	OrbitRotateSpeed float32
	OrbitZoomSpeed   float32

	Logger Logger
}

// ControlModeManager owns the active control scheme and is the only thing
// that moves between them. Requests that do not apply to the current mode
// are ignored.
type ControlModeManager struct {
	mode ControlMode

	camera   *Camera
	overlay  Overlay
	hub      *InputHub
	viewport *Viewport
	router   *InputRouter
	logger   Logger
	subs     subscriptions[EventKind, Event]

	fps        *PointerLockControls
	orbit      *OrbitControls
	drag       *DragControls
	dragSubs   []ListenerId
	draggables []*Entity

	orbitDistance    float32
	orbitRotateSpeed float32
	orbitZoomSpeed   float32

	observers []func(from, to ControlMode)
}

func NewControlModeManager(opts ControlModeOptions) *ControlModeManager {
	if opts.Logger == nil {
		opts.Logger = NewNopLogger()
	}
	if opts.Router == nil {
		opts.Router = NewInputRouter(DefaultKeymap(), 0.25)
	}
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{}
	}
	if opts.OrbitDistance <= 0 {
		opts.OrbitDistance = 5
	}
	m := &ControlModeManager{
		mode:             ModeUnlocked,
		camera:           opts.Camera,
		overlay:          opts.Overlay,
		hub:              opts.Hub,
		viewport:         opts.Viewport,
		router:           opts.Router,
		logger:           opts.Logger,
		subs:             subscriptions[EventKind, Event]{d: opts.Hub},
		fps:              NewPointerLockControls(opts.Camera, opts.Capture, opts.Hub),
		draggables:       opts.Draggables,
		orbitDistance:    opts.OrbitDistance,
		orbitRotateSpeed: opts.OrbitRotateSpeed,
		orbitZoomSpeed:   opts.OrbitZoomSpeed,
	}
	if opts.LookSensitivity > 0 {
		m.fps.Sensitivity = opts.LookSensitivity
	}
	m.overlay.SetMenuVisible(true)
	return m
}

// Connect subscribes the manager to raw input. Key presses, the start click
// and capture lifecycle events all funnel through here.
func (m *ControlModeManager) Connect() {
	if m.subs.active() {
		return
	}
	m.subs.on(EventKeyDown, func(ev Event) { m.HandleKey(ev.Key) })
	m.subs.on(EventPointerDown, func(ev Event) {
		if ev.Button == MouseButtonLeft && m.mode == ModeUnlocked {
			m.Start()
		}
	})
	m.subs.on(EventPointerLocked, func(Event) { m.onLocked() })
	m.subs.on(EventPointerUnlocked, func(Event) { m.onCaptureLost() })
}

// Dispose tears down every scheme and the manager's own listeners.
func (m *ControlModeManager) Dispose() {
	m.teardownAlt()
	m.fps.Dispose()
	m.fps.Unlock()
	m.subs.off()
}

func (m *ControlModeManager) Mode() ControlMode {
	return m.mode
}

// OnTransition registers fn to run after every committed transition.
func (m *ControlModeManager) OnTransition(fn func(from, to ControlMode)) {
	m.observers = append(m.observers, fn)
}

func (m *ControlModeManager) PointerLock() *PointerLockControls { return m.fps }
func (m *ControlModeManager) Orbit() *OrbitControls            { return m.orbit }
func (m *ControlModeManager) Drag() *DragControls              { return m.drag }

// Schemes lists the connected control schemes.
func (m *ControlModeManager) Schemes() []ControlScheme {
	var res []ControlScheme
	if m.fps.Connected() {
		res = append(res, m.fps)
	}
	if m.orbit != nil && m.orbit.Connected() {
		res = append(res, m.orbit)
	}
	if m.drag != nil && m.drag.Connected() {
		res = append(res, m.drag)
	}
	return res
}

// CaptureOwner is the scheme holding pointer capture, if any.
func (m *ControlModeManager) CaptureOwner() ControlScheme {
	if m.fps.IsLocked() {
		return m.fps
	}
	return nil
}

// Start is the menu's play action: Unlocked -> Locked-FPS. When the host
// denies capture the menu stays up and the mode does not change.
func (m *ControlModeManager) Start() bool {
	if m.mode != ModeUnlocked {
		return m.ignore("start")
	}
	if err := m.fps.Lock(); err != nil {
		m.logger.Warnf("start: %v", err)
		m.overlay.SetMenuVisible(true)
		return false
	}
	m.overlay.SetMenuVisible(false)
	m.fps.Connect()
	m.transition(ModeLockedFPS)
	return true
}

// Unlock is the explicit unlock command: Locked-FPS -> Unlocked.
func (m *ControlModeManager) Unlock() bool {
	if m.mode != ModeLockedFPS {
		return m.ignore("unlock")
	}
	m.fps.Dispose()
	m.fps.Unlock()
	m.overlay.SetMenuVisible(true)
	m.transition(ModeUnlocked)
	return true
}

// EnterFreeOrbit is the alt-mode command: Locked-FPS -> Free-Orbit+Drag.
func (m *ControlModeManager) EnterFreeOrbit() bool {
	if m.mode != ModeLockedFPS {
		return m.ignore("alt-mode")
	}
	m.fps.Dispose()
	m.fps.Unlock()

	m.orbit = NewOrbitControls(m.camera, m.hub, orbitTarget(m.camera, m.orbitDistance))
	if m.orbitRotateSpeed > 0 {
		m.orbit.RotateSpeed = m.orbitRotateSpeed
	}
	if m.orbitZoomSpeed > 0 {
		m.orbit.ZoomSpeed = m.orbitZoomSpeed
	}
	m.drag = NewDragControls(m.draggables, m.camera, m.viewport, m.hub)

	// Orbit must not fight the drag for the pointer while a target is hovered.
	orbit := m.orbit
	m.dragSubs = append(m.dragSubs,
		m.drag.On(DragHoverOn, func(DragEvent) { orbit.SetEnabled(false) }),
		m.drag.On(DragHoverOff, func(DragEvent) { orbit.SetEnabled(true) }),
	)

	// Drag sees a press first so a hover it resolves there gates orbit.
	m.drag.Connect()
	m.orbit.Connect()
	m.transition(ModeFreeOrbitDrag)
	return true
}

// Resume is the resume command: Free-Orbit+Drag -> Locked-FPS. If capture
// cannot be taken back the manager falls back to Unlocked.
func (m *ControlModeManager) Resume() bool {
	if m.mode != ModeFreeOrbitDrag {
		return m.ignore("resume")
	}
	m.teardownAlt()

	if err := m.fps.Lock(); err != nil {
		m.logger.Warnf("resume: %v", err)
		m.overlay.SetMenuVisible(true)
		m.transition(ModeUnlocked)
		return false
	}
	m.fps.Connect()
	m.transition(ModeLockedFPS)
	return true
}

// HandleKey routes a key press according to the current mode.
func (m *ControlModeManager) HandleKey(key Key) {
	intent, ok := m.router.Route(key)
	if !ok {
		return
	}

	switch m.mode {
	case ModeLockedFPS:
		switch intent.Command {
		case CommandMoveForward:
			m.fps.MoveForward(intent.Distance)
		case CommandMoveRight:
			m.fps.MoveRight(intent.Distance)
		case CommandAltMode:
			m.EnterFreeOrbit()
		case CommandUnlock:
			m.Unlock()
		}
	case ModeFreeOrbitDrag:
		if intent.Command == CommandResume {
			m.Resume()
		}
	}
}

// Update is the per-frame hook; only the orbit scheme does continuous work.
func (m *ControlModeManager) Update() {
	for _, s := range m.Schemes() {
		s.Update()
	}
}

func (m *ControlModeManager) onLocked() {
	if m.mode == ModeLockedFPS {
		m.overlay.SetMenuVisible(false)
	}
}

// onCaptureLost handles the host taking capture away, e.g. Escape in a
// browser or the window losing focus.
func (m *ControlModeManager) onCaptureLost() {
	if m.mode != ModeLockedFPS {
		return
	}
	m.fps.lost()
	m.fps.Dispose()
	m.overlay.SetMenuVisible(true)
	m.transition(ModeUnlocked)
}

func (m *ControlModeManager) teardownAlt() {
	if m.drag != nil {
		for _, id := range m.dragSubs {
			m.drag.Off(id)
		}
		m.drag.Dispose()
	}
	if m.orbit != nil {
		m.orbit.Dispose()
	}
	m.dragSubs = nil
	m.drag = nil
	m.orbit = nil
}

func (m *ControlModeManager) transition(to ControlMode) {
	from := m.mode
	m.mode = to
	m.logger.Debugf("control mode %s -> %s", from, to)
	for _, fn := range m.observers {
		fn(from, to)
	}
}

func (m *ControlModeManager) ignore(request string) bool {
	m.logger.Debugf("ignoring %s in %s", request, m.mode)
	return false
}

type ControlsModule struct {
	Config  ControlsConfig
	Capture PointerCapture
}

func (mod ControlsModule) Install(app *App, cmd *Commands) {
	camera, ok := Resource[Camera](app)
	if !ok {
		panic("ControlsModule requires a Camera; install SceneModule first")
	}
	hub, ok := Resource[InputHub](app)
	if !ok {
		panic("ControlsModule requires an InputHub; install InputModule first")
	}
	menu, _ := Resource[Menu](app)
	viewport, _ := Resource[Viewport](app)

	var overlay Overlay = menu
	if menu == nil {
		overlay = NewMenu()
	}

	var draggables []*Entity
	for _, name := range mod.Config.Draggables {
		e := app.Scene().Find(name)
		if e == nil {
			app.Logger().Warnf("draggable %q not in scene", name)
			continue
		}
		if e.AttachedToCamera() {
			app.Logger().Warnf("draggable %q follows the camera and cannot be dragged", name)
			continue
		}
		e.Draggable = true
		draggables = append(draggables, e)
	}

	step := mod.Config.Step
	if step <= 0 {
		step = 0.25
	}
	manager := NewControlModeManager(ControlModeOptions{
		Camera:           camera,
		Capture:          mod.Capture,
		Overlay:          overlay,
		Hub:              hub,
		Viewport:         viewport,
		Router:           NewInputRouter(DefaultKeymap(), step),
		Draggables:       draggables,
		OrbitDistance:    mod.Config.OrbitDistance,
		LookSensitivity:  mod.Config.LookSensitivity,
		OrbitRotateSpeed: mod.Config.OrbitRotateSpeed,
		OrbitZoomSpeed:   mod.Config.OrbitZoomSpeed,
		Logger:           app.Logger(),
	})
	manager.Connect()
	cmd.AddResources(manager)

	app.UseSystem(
		System(controlsUpdateSystem).
			InStage(PostUpdate),
	)
}

func controlsUpdateSystem(manager *ControlModeManager) {
	manager.Update()
}

// orbitTarget is the point the camera was looking at, distance ahead.
func orbitTarget(camera *Camera, distance float32) mgl32.Vec3 {
	return camera.Position.Add(camera.Forward().Mul(distance))
}
