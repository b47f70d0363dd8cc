// Package glrender draws a reflector scene with OpenGL 4.1 core: unlit
// colored meshes, wireframes, a planar ground mirror and HUD overlays.
package glrender

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/reflector"
)

// GPUMesh holds the buffer objects of an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	Mode       uint32
}

type meshKey struct {
	shape     reflector.Shape
	params    string
	wireframe bool
}

type Renderer struct {
	logger reflector.Logger

	program    uint32
	mvpLoc     int32
	tintLoc    int32
	opacityLoc int32

	hudProgram uint32
	hudRectLoc int32
	hudVAO     uint32
	hudVBO     uint32
	hudTex     uint32

	sky *Skybox

	meshes map[meshKey]*GPUMesh

	width, height int
}

var (
	_ reflector.Renderer    = (*Renderer)(nil)
	_ reflector.HUDRenderer = (*Renderer)(nil)
)

// NewRenderer initialises OpenGL. The window's context must be current.
func NewRenderer(logger reflector.Logger) (*Renderer, error) {
	if logger == nil {
		logger = reflector.NewNopLogger()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(sceneVert, sceneFrag)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	hudProg, err := newProgram(hudVert, hudFrag)
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("hud shader: %w", err)
	}
	sky, err := NewSkybox()
	if err != nil {
		gl.DeleteProgram(prog)
		gl.DeleteProgram(hudProg)
		return nil, err
	}

	r := &Renderer{
		logger:     logger,
		program:    prog,
		mvpLoc:     uniform(prog, "mvp"),
		tintLoc:    uniform(prog, "tint"),
		opacityLoc: uniform(prog, "opacity"),
		hudProgram: hudProg,
		hudRectLoc: uniform(hudProg, "rect"),
		sky:        sky,
		meshes:     make(map[meshKey]*GPUMesh),
	}
	r.initHUD()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r, nil
}

func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Draw renders one frame: sky, mirror reflection, mirror surface and then
// the scene itself.
func (r *Renderer) Draw(scene *reflector.Scene, camera *reflector.Camera) {
	bg := reflector.UnpackColor(scene.Sky.Horizon)
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.ClearStencil(0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	r.sky.Draw(scene.Sky, camera)

	gl.UseProgram(r.program)
	vp := camera.ProjectionMatrix().Mul4(camera.ViewMatrix())

	var mirrors []*reflector.Entity
	scene.Each(func(e *reflector.Entity) bool {
		if e.Visible && e.Material != nil && e.Material.Reflective {
			mirrors = append(mirrors, e)
		}
		return true
	})

	for _, mirror := range mirrors {
		r.drawReflection(scene, camera, vp, mirror)
	}

	scene.Each(func(e *reflector.Entity) bool {
		if e.Visible && (e.Material == nil || !e.Material.Reflective) {
			r.drawEntity(e, camera, vp)
		}
		return true
	})
}

// drawReflection mirrors the scene about the mirror's plane, clipped to the
// mirror's footprint through the stencil buffer, then blends the mirror
// surface over it.
func (r *Renderer) drawReflection(scene *reflector.Scene, camera *reflector.Camera, vp mgl32.Mat4, mirror *reflector.Entity) {
	h := mirror.WorldPosition(camera).Y()
	reflect := mgl32.Translate3D(0, h, 0).
		Mul4(mgl32.Scale3D(1, -1, 1)).
		Mul4(mgl32.Translate3D(0, -h, 0))

	gl.Enable(gl.STENCIL_TEST)
	gl.StencilFunc(gl.ALWAYS, 1, 0xff)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	gl.StencilMask(0xff)
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	r.drawEntity(mirror, camera, vp)
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)

	gl.StencilFunc(gl.EQUAL, 1, 0xff)
	gl.StencilMask(0)
	reflected := vp.Mul4(reflect)
	scene.Each(func(e *reflector.Entity) bool {
		if e.Visible && e != mirror && (e.Material == nil || !e.Material.Reflective) {
			r.drawEntity(e, camera, reflected)
		}
		return true
	})
	gl.Disable(gl.STENCIL_TEST)
	gl.StencilMask(0xff)

	// Reflected depth must not hide the real scene.
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	r.drawEntity(mirror, camera, vp)
}

func (r *Renderer) drawEntity(e *reflector.Entity, camera *reflector.Camera, vp mgl32.Mat4) {
	wireframe := e.Material != nil && e.Material.Wireframe
	gpu := r.ensureUploaded(e.Geometry, wireframe)
	if gpu == nil {
		return
	}

	mvp := vp.Mul4(e.WorldMatrix(camera))
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])

	tint := [3]float32{1, 1, 1}
	opacity := float32(1)
	if e.Material != nil {
		tint = e.Material.RGB()
		opacity = e.Material.Opacity
	}
	// The axes helper keeps its per-axis vertex colors.
	if e.Geometry.Shape == reflector.ShapeAxes {
		tint = [3]float32{1, 1, 1}
	}
	gl.Uniform3f(r.tintLoc, tint[0], tint[1], tint[2])
	gl.Uniform1f(r.opacityLoc, opacity)

	if opacity < 1 {
		gl.Enable(gl.BLEND)
		defer gl.Disable(gl.BLEND)
	}

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gpu.Mode, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// ensureUploaded builds and uploads the mesh for g on first use.
func (r *Renderer) ensureUploaded(g reflector.Geometry, wireframe bool) *GPUMesh {
	key := meshKey{shape: g.Shape, params: fmt.Sprint(g.Params), wireframe: wireframe}
	if gpu, ok := r.meshes[key]; ok {
		return gpu
	}

	mesh := BuildMesh(g, wireframe)
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		r.meshes[key] = nil
		return nil
	}

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		Mode:       gl.TRIANGLES,
	}
	if mesh.Mode == DrawLines {
		gpu.Mode = gl.LINES
	}

	stride := int32(unsafe.Sizeof(Vertex{}))
	var v Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.meshes[key] = gpu
	return gpu
}

func (r *Renderer) initHUD() {
	corners := []float32{0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1}

	gl.GenVertexArrays(1, &r.hudVAO)
	gl.GenBuffers(1, &r.hudVBO)
	gl.BindVertexArray(r.hudVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.hudVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, gl.Ptr(corners), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &r.hudTex)
	gl.BindTexture(gl.TEXTURE_2D, r.hudTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.UseProgram(r.hudProgram)
	gl.Uniform1i(uniform(r.hudProgram, "overlay"), 0)
}

// DrawHUD blits img over the last draw at pixel scale.
func (r *Renderer) DrawHUD(img *image.RGBA, anchor reflector.HUDAnchor) {
	b := img.Bounds()
	if b.Empty() || r.width <= 0 || r.height <= 0 {
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, r.hudTex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	x0, y0, x1, y1 := hudRect(b.Dx(), b.Dy(), r.width, r.height, anchor)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.UseProgram(r.hudProgram)
	gl.Uniform4f(r.hudRectLoc, x0, y0, x1, y1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.hudVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

const hudMargin = 8

// hudRect converts an overlay of w*h pixels anchored in a viewport of
// vw*vh pixels to NDC, bottom-left corner first.
func hudRect(w, h, vw, vh int, anchor reflector.HUDAnchor) (x0, y0, x1, y1 float32) {
	var left, top int
	switch anchor {
	case reflector.AnchorCenter:
		left, top = (vw-w)/2, (vh-h)/2
	default:
		left, top = hudMargin, hudMargin
	}
	ndcX := func(px int) float32 { return 2*float32(px)/float32(vw) - 1 }
	ndcY := func(py int) float32 { return 1 - 2*float32(py)/float32(vh) }
	return ndcX(left), ndcY(top + h), ndcX(left + w), ndcY(top)
}

// Destroy releases every GPU resource.
func (r *Renderer) Destroy() {
	for key, gpu := range r.meshes {
		if gpu != nil {
			gl.DeleteVertexArrays(1, &gpu.VAO)
			gl.DeleteBuffers(1, &gpu.VBO)
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.meshes, key)
	}
	gl.DeleteVertexArrays(1, &r.hudVAO)
	gl.DeleteBuffers(1, &r.hudVBO)
	gl.DeleteTextures(1, &r.hudTex)
	r.sky.Destroy()
	gl.DeleteProgram(r.hudProgram)
	gl.DeleteProgram(r.program)
}
