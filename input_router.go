package reflector

type Command int

const (
	CommandNone Command = iota
	CommandMoveForward
	CommandMoveRight
	CommandAltMode
	CommandResume
	CommandUnlock
)

func (c Command) String() string {
	switch c {
	case CommandMoveForward:
		return "move-forward"
	case CommandMoveRight:
		return "move-right"
	case CommandAltMode:
		return "alt-mode"
	case CommandResume:
		return "resume"
	case CommandUnlock:
		return "unlock"
	}
	return "none"
}

// Intent is a routed key press. Distance is signed: moving backward is a
// negative forward move, strafing left a negative right move.
type Intent struct {
	Command  Command
	Distance float32
}

type binding struct {
	command Command
	sign    float32
}

// Keymap binds keys to commands; sign applies to movement commands only.
type Keymap map[Key]binding

func DefaultKeymap() Keymap {
	return Keymap{
		KeyW:      {CommandMoveForward, 1},
		KeyS:      {CommandMoveForward, -1},
		KeyA:      {CommandMoveRight, -1},
		KeyD:      {CommandMoveRight, 1},
		KeyUp:     {CommandMoveForward, 1},
		KeyDown:   {CommandMoveForward, -1},
		KeyLeft:   {CommandMoveRight, -1},
		KeyRight:  {CommandMoveRight, 1},
		KeySpace:  {CommandAltMode, 0},
		KeyEnter:  {CommandResume, 0},
		KeyEscape: {CommandUnlock, 0},
	}
}

// Bind maps key to command, replacing any previous binding.
func (k Keymap) Bind(key Key, command Command, sign float32) {
	k[key] = binding{command: command, sign: sign}
}

// InputRouter turns key codes into semantic commands. Movement commands move
// by a fixed step per press.
type InputRouter struct {
	keymap Keymap
	step   float32
}

func NewInputRouter(keymap Keymap, step float32) *InputRouter {
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	return &InputRouter{keymap: keymap, step: step}
}

func (r *InputRouter) Step() float32 {
	return r.step
}

// Route reports false for keys without a binding.
func (r *InputRouter) Route(key Key) (Intent, bool) {
	b, ok := r.keymap[key]
	if !ok || b.command == CommandNone {
		return Intent{}, false
	}
	intent := Intent{Command: b.command}
	if b.command == CommandMoveForward || b.command == CommandMoveRight {
		intent.Distance = b.sign * r.step
	}
	return intent, true
}
