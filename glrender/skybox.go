package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/reflector"
)

// skyVert expects skyVP without translation. The xyww swizzle pins every
// fragment to the far plane.
const skyVert = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 skyVP;

out vec3 vDir;

void main() {
    vDir = inPosition;
    vec4 pos = skyVP * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
` + "\x00"

// skyFrag blends horizon to zenith above eye level and horizon to ground
// below it.
const skyFrag = `
#version 410 core
in vec3 vDir;

uniform vec3 zenith;
uniform vec3 horizon;
uniform vec3 ground;

out vec4 outColor;

void main() {
    float t = normalize(vDir).y;
    vec3 color;
    if (t >= 0.0) {
        color = mix(horizon, zenith, pow(t, 0.4));
    } else {
        color = mix(horizon, ground, min(-t * 3.0, 1.0));
    }
    outColor = vec4(color, 1.0);
}
` + "\x00"

// skyboxVerts is a unit cube as 36 triangle corners. Culling is off, so
// winding does not matter from the inside.
var skyboxVerts = []float32{
	// -Z
	-1, -1, -1, 1, 1, -1, 1, -1, -1,
	1, 1, -1, -1, -1, -1, -1, 1, -1,
	// +Z
	-1, -1, 1, 1, -1, 1, 1, 1, 1,
	1, 1, 1, -1, 1, 1, -1, -1, 1,
	// -X
	-1, 1, 1, -1, 1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, 1, -1, 1, 1,
	// +X
	1, 1, 1, 1, -1, -1, 1, 1, -1,
	1, -1, -1, 1, 1, 1, 1, -1, 1,
	// -Y
	-1, -1, -1, 1, -1, -1, 1, -1, 1,
	1, -1, 1, -1, -1, 1, -1, -1, -1,
	// +Y
	-1, 1, -1, 1, 1, 1, 1, 1, -1,
	1, 1, 1, -1, 1, -1, -1, 1, 1,
}

// Skybox draws a scene's Sky gradient on an inverted cube around the camera.
type Skybox struct {
	vao  uint32
	vbo  uint32
	prog uint32

	vpLoc      int32
	zenithLoc  int32
	horizonLoc int32
	groundLoc  int32
}

func NewSkybox() (*Skybox, error) {
	prog, err := newProgram(skyVert, skyFrag)
	if err != nil {
		return nil, fmt.Errorf("skybox shader: %w", err)
	}
	sb := &Skybox{
		prog:       prog,
		vpLoc:      uniform(prog, "skyVP"),
		zenithLoc:  uniform(prog, "zenith"),
		horizonLoc: uniform(prog, "horizon"),
		groundLoc:  uniform(prog, "ground"),
	}

	gl.GenVertexArrays(1, &sb.vao)
	gl.GenBuffers(1, &sb.vbo)
	gl.BindVertexArray(sb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(skyboxVerts)*4, gl.Ptr(skyboxVerts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return sb, nil
}

// Draw renders the sky behind whatever is drawn next. It writes no depth.
func (sb *Skybox) Draw(sky reflector.Sky, camera *reflector.Camera) {
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)

	vp := skyViewProjection(camera)
	zenith := reflector.UnpackColor(sky.Zenith)
	horizon := reflector.UnpackColor(sky.Horizon)
	ground := reflector.UnpackColor(sky.Ground)

	gl.UseProgram(sb.prog)
	gl.UniformMatrix4fv(sb.vpLoc, 1, false, &vp[0])
	gl.Uniform3f(sb.zenithLoc, zenith[0], zenith[1], zenith[2])
	gl.Uniform3f(sb.horizonLoc, horizon[0], horizon[1], horizon[2])
	gl.Uniform3f(sb.groundLoc, ground[0], ground[1], ground[2])

	gl.BindVertexArray(sb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(skyboxVerts)/3))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

func (sb *Skybox) Destroy() {
	gl.DeleteVertexArrays(1, &sb.vao)
	gl.DeleteBuffers(1, &sb.vbo)
	gl.DeleteProgram(sb.prog)
}

// skyViewProjection is the camera's view-projection without its translation.
func skyViewProjection(camera *reflector.Camera) mgl32.Mat4 {
	view := camera.ViewMatrix().Mat3().Mat4()
	return camera.ProjectionMatrix().Mul4(view)
}
