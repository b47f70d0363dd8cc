package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/reflector"
)

var glfwToKey = map[glfw.Key]reflector.Key{
	glfw.KeyA:            reflector.KeyA,
	glfw.KeyB:            reflector.KeyB,
	glfw.KeyC:            reflector.KeyC,
	glfw.KeyD:            reflector.KeyD,
	glfw.KeyE:            reflector.KeyE,
	glfw.KeyF:            reflector.KeyF,
	glfw.KeyG:            reflector.KeyG,
	glfw.KeyH:            reflector.KeyH,
	glfw.KeyI:            reflector.KeyI,
	glfw.KeyJ:            reflector.KeyJ,
	glfw.KeyK:            reflector.KeyK,
	glfw.KeyL:            reflector.KeyL,
	glfw.KeyM:            reflector.KeyM,
	glfw.KeyN:            reflector.KeyN,
	glfw.KeyO:            reflector.KeyO,
	glfw.KeyP:            reflector.KeyP,
	glfw.KeyQ:            reflector.KeyQ,
	glfw.KeyR:            reflector.KeyR,
	glfw.KeyS:            reflector.KeyS,
	glfw.KeyT:            reflector.KeyT,
	glfw.KeyU:            reflector.KeyU,
	glfw.KeyV:            reflector.KeyV,
	glfw.KeyW:            reflector.KeyW,
	glfw.KeyX:            reflector.KeyX,
	glfw.KeyY:            reflector.KeyY,
	glfw.KeyZ:            reflector.KeyZ,
	glfw.Key0:            reflector.Key0,
	glfw.Key1:            reflector.Key1,
	glfw.Key2:            reflector.Key2,
	glfw.Key3:            reflector.Key3,
	glfw.Key4:            reflector.Key4,
	glfw.Key5:            reflector.Key5,
	glfw.Key6:            reflector.Key6,
	glfw.Key7:            reflector.Key7,
	glfw.Key8:            reflector.Key8,
	glfw.Key9:            reflector.Key9,
	glfw.KeySpace:        reflector.KeySpace,
	glfw.KeyEnter:        reflector.KeyEnter,
	glfw.KeyKPEnter:      reflector.KeyEnter,
	glfw.KeyEscape:       reflector.KeyEscape,
	glfw.KeyTab:          reflector.KeyTab,
	glfw.KeyBackspace:    reflector.KeyBackspace,
	glfw.KeyRight:        reflector.KeyRight,
	glfw.KeyLeft:         reflector.KeyLeft,
	glfw.KeyDown:         reflector.KeyDown,
	glfw.KeyUp:           reflector.KeyUp,
	glfw.KeyF1:           reflector.KeyF1,
	glfw.KeyLeftShift:    reflector.KeyShift,
	glfw.KeyRightShift:   reflector.KeyShift,
	glfw.KeyLeftControl:  reflector.KeyControl,
	glfw.KeyRightControl: reflector.KeyControl,
}
