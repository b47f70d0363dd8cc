package reflector

// Viewport is the drawable size in pixels as last reported by the host.
type Viewport struct {
	Width  int
	Height int
}

func (v *Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Resize records the new size, fixes the camera projection and requests a
// redraw, which the frame's Render stage issues after the updates. A
// zero-height size (minimised window) is ignored.
func (v *Viewport) Resize(width, height int, camera *Camera, loop *RenderLoop) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	v.Width, v.Height = width, height
	camera.SetAspect(v.Aspect())
	if loop != nil {
		loop.Renderer().Resize(width, height)
		loop.RequestRedraw()
	}
	return true
}
