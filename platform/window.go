// Package platform hosts the session in a GLFW window: it owns the GL
// context, turns window callbacks into reflector input events and grants
// pointer capture.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/reflector"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "reflector",
		Resizable: true,
		VSync:     true,
	}
}

// Window is a GLFW window with a current OpenGL 4.1 core context.
type Window struct {
	handle *glfw.Window
	input  *reflector.Input

	focused  bool
	captured bool

	lastX, lastY float64
	havePointer  bool
}

var _ reflector.PointerCapture = (*Window)(nil)

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return &Window{
		handle:  handle,
		focused: true,
	}, nil
}

// Bind starts forwarding window callbacks into input.
func (w *Window) Bind(input *reflector.Input) {
	w.input = input

	w.handle.SetKeyCallback(w.onKey)
	w.handle.SetCursorPosCallback(w.onCursorPos)
	w.handle.SetMouseButtonCallback(w.onMouseButton)
	w.handle.SetScrollCallback(w.onScroll)
	w.handle.SetFramebufferSizeCallback(w.onFramebufferSize)
	w.handle.SetFocusCallback(w.onFocus)

	width, height := w.handle.GetFramebufferSize()
	w.push(reflector.Event{Kind: reflector.EventResize, Width: width, Height: height})
}

// RequestLock hides and captures the cursor. Capture is only granted to a
// focused window.
func (w *Window) RequestLock() error {
	if !w.focused {
		return reflector.ErrCaptureDenied
	}
	w.handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		w.handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
	w.captured = true
	w.havePointer = false
	w.push(reflector.Event{Kind: reflector.EventPointerLocked})
	return nil
}

// ReleaseLock gives the cursor back. The caller already knows, so no
// unlocked event is reported.
func (w *Window) ReleaseLock() {
	if !w.captured {
		return
	}
	w.captured = false
	w.havePointer = false
	w.handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.handle.SwapBuffers()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}

func (w *Window) push(ev reflector.Event) {
	if w.input != nil {
		w.input.Push(ev)
	}
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := glfwToKey[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		w.push(reflector.Event{Kind: reflector.EventKeyDown, Key: k})
	case glfw.Release:
		w.push(reflector.Event{Kind: reflector.EventKeyUp, Key: k})
	}
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	ev := reflector.Event{Kind: reflector.EventPointerMove, X: x, Y: y}
	if w.havePointer {
		ev.DX, ev.DY = x-w.lastX, y-w.lastY
	}
	w.lastX, w.lastY = x, y
	w.havePointer = true
	w.push(ev)
}

func (w *Window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	var b reflector.MouseButton
	switch button {
	case glfw.MouseButtonLeft:
		b = reflector.MouseButtonLeft
	case glfw.MouseButtonRight:
		b = reflector.MouseButtonRight
	case glfw.MouseButtonMiddle:
		b = reflector.MouseButtonMiddle
	default:
		return
	}
	x, y := w.handle.GetCursorPos()
	kind := reflector.EventPointerDown
	if action == glfw.Release {
		kind = reflector.EventPointerUp
	}
	w.push(reflector.Event{Kind: kind, Button: b, X: x, Y: y})
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	w.push(reflector.Event{Kind: reflector.EventWheel, Scroll: yoff})
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.push(reflector.Event{Kind: reflector.EventResize, Width: width, Height: height})
}

// onFocus treats losing focus while captured as the host revoking capture.
func (w *Window) onFocus(_ *glfw.Window, focused bool) {
	w.focused = focused
	if focused || !w.captured {
		return
	}
	w.captured = false
	w.handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	w.push(reflector.Event{Kind: reflector.EventPointerUnlocked})
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
