package show

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Preview is an optional window that draws the live channel frame as a
// glowing beam sprite: position from the movement channels, spread from
// zoom/boundary, colour from the colour channel. It implements
// FrameSink; the GL loop must run on the main thread.
type Preview struct {
	mu     sync.Mutex
	values ChannelOverrides
	punch  float64
}

func NewPreview() *Preview { return &Preview{} }

// Frame stores the latest resolved frame for the next vsync.
func (p *Preview) Frame(values ChannelOverrides, st *ShowState) {
	st.mu.Lock()
	punch := st.PunchLevel
	st.mu.Unlock()
	p.mu.Lock()
	p.values = values
	p.punch = punch
	p.mu.Unlock()
}

const previewVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;   // pixels
layout(location = 1) in float aSize; // pixels
layout(location = 2) in vec4 aColor;

uniform vec2 uResolution;

out vec4 vColor;

void main() {
    vec2 ndc = (aPos / uResolution) * 2.0 - 1.0;
    ndc.y = -ndc.y;
    gl_Position = vec4(ndc, 0.0, 1.0);
    gl_PointSize = max(2.0, aSize);
    vColor = aColor;
}
` + "\x00"

// Additive radial falloff, same look as a beam hitting haze.
const previewFragSrc = `#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    FragColor = vec4(vColor.rgb * falloff * vColor.a, 1.0);
}
` + "\x00"

// Run opens the window and redraws until the context is cancelled or
// the window is closed. Call from the main goroutine.
func (p *Preview) Run(ctx context.Context) error {
	runtime.LockOSThread()

	window, err := initPreviewWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	prog, err := linkPreviewProgram()
	if err != nil {
		return err
	}
	defer gl.DeleteProgram(prog)

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	// Layout: x, y, size, r, g, b, a.
	stride := int32(7 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 1, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 3*4)

	uRes := gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE) // additive

	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		gl.ClearColor(0.02, 0.02, 0.03, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		verts := p.buildVerts()
		if len(verts) > 0 {
			gl.UseProgram(prog)
			gl.Uniform2f(uRes, float32(PreviewWidth), float32(PreviewHeight))
			gl.BindVertexArray(vao)
			gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
			gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
			gl.DrawArrays(gl.POINTS, 0, int32(len(verts)/7))
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// buildVerts maps the latest frame onto one beam sprite plus a punch
// halo.
func (p *Preview) buildVerts() []float32 {
	p.mu.Lock()
	values := p.values
	punch := p.punch
	p.mu.Unlock()
	if values == nil {
		return nil
	}

	x := float32(values[ChXMove]%128) / 127 * PreviewWidth
	y := float32(values[ChYMove]%128) / 127 * PreviewHeight
	size := float32(40 + values[ChZoom] + values[ChBoundary]/2)
	r, g, b := colorValueRGB(values[ChColor])
	a := float32(0.4 + 0.6*punch)

	verts := []float32{x, y, size, r, g, b, a}
	if punch > 0.05 {
		verts = append(verts, x, y, size*float32(1.5+punch), r, g, b, float32(0.3*punch))
	}
	return verts
}

// colorValueRGB approximates the fixture's palette wheel for on-screen
// display. Cycle/chase program values shimmer instead of holding a hue.
func colorValueRGB(v int) (r, g, b float32) {
	switch {
	case v <= 24: // warm statics
		return 1, float32(v) / 32, 0.1
	case v <= 48: // cool statics
		return 0.1, float32(v-24) / 32, 1
	case v <= 64: // mixed statics
		return 0.9, 0.2, float32(v-48) / 20
	default: // cycles and chases
		h := float64(v) * 0.11
		return float32(0.5 + 0.5*math.Sin(h)),
			float32(0.5 + 0.5*math.Sin(h+2.1)),
			float32(0.5 + 0.5*math.Sin(h+4.2))
	}
}

func compilePreviewShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkPreviewProgram() (uint32, error) {
	vs, err := compilePreviewShader(previewVertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compilePreviewShader(previewFragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
