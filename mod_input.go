package reflector

type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyShift
	KeyControl

	keyCount
)

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventPointerMove
	EventPointerDown
	EventPointerUp
	EventWheel
	// Pointer capture lifecycle, reported by the host after a lock request
	// succeeds or whenever capture is lost.
	EventPointerLocked
	EventPointerUnlocked
	EventResize
)

var eventKindNames = [...]string{
	EventKeyDown:         "keydown",
	EventKeyUp:           "keyup",
	EventPointerMove:     "pointermove",
	EventPointerDown:     "pointerdown",
	EventPointerUp:       "pointerup",
	EventWheel:           "wheel",
	EventPointerLocked:   "locked",
	EventPointerUnlocked: "unlocked",
	EventResize:          "resize",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is a raw input event. Which fields are meaningful depends on Kind.
type Event struct {
	Kind   EventKind
	Key    Key
	Button MouseButton

	// Pointer position in window pixels and movement since the last event.
	X, Y   float64
	DX, DY float64

	// Wheel delta, positive away from the user.
	Scroll float64

	Width, Height int
}

func eventKind(ev Event) EventKind {
	return ev.Kind
}

// InputHub fans raw events out to whichever components subscribed.
type InputHub = Dispatcher[EventKind, Event]

func NewInputHub() *InputHub {
	return NewDispatcher[EventKind, Event](eventKind)
}

// Input queues raw events pushed by the host between frames and keeps a
// small amount of derived state.
type Input struct {
	Pressed [keyCount]bool

	MouseX, MouseY            float64
	MouseCaptured             bool
	WindowWidth, WindowHeight int

	queue []Event
}

func (in *Input) Push(ev Event) {
	in.queue = append(in.queue, ev)
}

func (in *Input) Pending() int {
	return len(in.queue)
}

// drain returns the queued events in arrival order and updates derived state.
func (in *Input) drain() []Event {
	events := in.queue
	in.queue = nil
	for _, ev := range events {
		switch ev.Kind {
		case EventKeyDown:
			if ev.Key > KeyUnknown && ev.Key < keyCount {
				in.Pressed[ev.Key] = true
			}
		case EventKeyUp:
			if ev.Key > KeyUnknown && ev.Key < keyCount {
				in.Pressed[ev.Key] = false
			}
		case EventPointerMove, EventPointerDown, EventPointerUp:
			in.MouseX, in.MouseY = ev.X, ev.Y
		case EventPointerLocked:
			in.MouseCaptured = true
		case EventPointerUnlocked:
			in.MouseCaptured = false
		case EventResize:
			in.WindowWidth, in.WindowHeight = ev.Width, ev.Height
		}
	}
	return events
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{}, NewInputHub())
	app.UseSystem(
		System(inputDispatchSystem).
			InStage(PreUpdate),
	)
}

// inputDispatchSystem runs every queued event handler to completion before
// the frame's update and draw stages.
func inputDispatchSystem(input *Input, hub *InputHub) {
	for _, ev := range input.drain() {
		hub.Emit(ev)
	}
}
