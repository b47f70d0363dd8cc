package glrender

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// sceneVert transforms by mvp and passes the per-vertex color through.
const sceneVert = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inColor;

uniform mat4 mvp;

out vec3 vColor;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    vColor = inColor;
}
` + "\x00"

// sceneFrag tints the vertex color by the material color and opacity.
const sceneFrag = `
#version 410 core
in vec3 vColor;

uniform vec3 tint;
uniform float opacity;

out vec4 outColor;

void main() {
    outColor = vec4(vColor * tint, opacity);
}
` + "\x00"

// hudVert places a unit quad into rect, given in NDC as (x0, y0, x1, y1).
const hudVert = `
#version 410 core
layout(location = 0) in vec2 inCorner;

uniform vec4 rect;

out vec2 vUV;

void main() {
    vec2 pos = mix(rect.xy, rect.zw, inCorner);
    gl_Position = vec4(pos, 0.0, 1.0);
    vUV = vec2(inCorner.x, 1.0 - inCorner.y);
}
` + "\x00"

const hudFrag = `
#version 410 core
in vec2 vUV;

uniform sampler2D overlay;

out vec4 outColor;

void main() {
    outColor = texture(overlay, vUV);
}
` + "\x00"

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}
