// Package opengl provides an OpenGL 4.1 core backend for prism, together
// with a GLFW window host that drives a Scene.
package opengl

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/prism"
)

// Device implements prism.Device on the current OpenGL context. Handles are
// the GL object names. Every method must be called on the thread that owns
// the context.
type Device struct {
	vao    uint32
	width  int
	height int
}

var (
	_ prism.Device      = (*Device)(nil)
	_ prism.PixelReader = (*Device)(nil)
)

// NewDevice loads the GL function pointers for the current context and
// sets up the fixed pipeline state: depth test (LEQUAL), back-face culling
// and straight-alpha blending.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	prism.Logger().Info("OpenGL device created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	d := &Device{}
	// Core profile needs a bound VAO for every draw; one is enough since
	// attribute pointers are re-bound per entity.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return d, nil
}

// NewVertexBuffer uploads per-vertex floats.
func (d *Device) NewVertexBuffer(data []float32) (prism.BufferID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("vertex buffer: no data")
	}
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return prism.BufferID(buf), nil
}

// NewIndexBuffer uploads 16-bit triangle indices.
func (d *Device) NewIndexBuffer(data []uint16) (prism.BufferID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("index buffer: no data")
	}
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
	return prism.BufferID(buf), nil
}

// NewProgram compiles both stages as GLSL and links them.
func (d *Device) NewProgram(src prism.ShaderSource) (prism.ProgramID, error) {
	vs, err := compileShader(src.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", prism.ErrShaderLink, trimLog(log))
	}
	return prism.ProgramID(program), nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", prism.ErrShaderCompile, trimLog(log))
	}
	return shader, nil
}

func trimLog(log []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(log), "\x00"))
}

// NewTexture creates a linear-filtered, edge-clamped RGBA texture.
func (d *Device) NewTexture(img image.Image) (prism.TextureID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if err := d.UploadTexture(prism.TextureID(tex), img); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return prism.TextureID(tex), nil
}

// UploadTexture replaces the texture's storage with img.
func (d *Device) UploadTexture(tex prism.TextureID, img image.Image) error {
	pix := flippedNRGBA(img)
	w, h := pix.Rect.Dx(), pix.Rect.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("upload texture: empty image")
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix.Pix))
	return nil
}

// flippedNRGBA converts img to straight-alpha RGBA with the bottom row
// first, so v = 0 samples the bottom of the image.
func flippedNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(src, image.Point{}, img, b, xdraw.Src, nil)

	out := image.NewNRGBA(src.Rect)
	stride := src.Stride
	h := src.Rect.Dy()
	for y := 0; y < h; y++ {
		copy(out.Pix[y*stride:(y+1)*stride], src.Pix[(h-1-y)*stride:(h-y)*stride])
	}
	return out
}

// AttribLocation looks up a vertex attribute by name.
func (d *Device) AttribLocation(p prism.ProgramID, name string) (prism.Location, bool) {
	loc := gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
	return prism.Location(loc), loc >= 0
}

// UniformLocation looks up a uniform by name. Uniforms the compiler
// optimised away report as missing.
func (d *Device) UniformLocation(p prism.ProgramID, name string) (prism.Location, bool) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	return prism.Location(loc), loc >= 0
}

func (d *Device) UseProgram(p prism.ProgramID) {
	gl.UseProgram(uint32(p))
}

// BindAttribute points loc at tightly packed float components in buf.
func (d *Device) BindAttribute(loc prism.Location, buf prism.BufferID, components int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(loc))
}

func (d *Device) BindIndices(buf prism.BufferID) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(buf))
}

// BindTexture binds tex to the given unit and points sampler at it.
func (d *Device) BindTexture(unit int, tex prism.TextureID, sampler prism.Location) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.Uniform1i(int32(sampler), int32(unit))
}

// UniformMatrix4 uploads a column-major matrix, the layout mgl32 stores.
func (d *Device) UniformMatrix4(loc prism.Location, m mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

func (d *Device) DrawIndexed(count int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_SHORT, 0)
}

// BeginFrame sets the viewport and clears color and depth.
func (d *Device) BeginFrame(width, height int, clear prism.Color) {
	d.width, d.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels reads the back buffer of the frame being drawn. Rows are
// returned top first.
func (d *Device) ReadPixels() (*image.NRGBA, error) {
	if d.width <= 0 || d.height <= 0 {
		return nil, fmt.Errorf("read pixels: no frame drawn")
	}
	w, h := d.width, d.height
	raw := make([]byte, 4*w*h)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(raw))

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	stride := 4 * w
	for y := 0; y < h; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], raw[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

func (d *Device) DeleteBuffer(buf prism.BufferID) {
	b := uint32(buf)
	gl.DeleteBuffers(1, &b)
}

func (d *Device) DeleteTexture(tex prism.TextureID) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
}

func (d *Device) DeleteProgram(p prism.ProgramID) {
	gl.DeleteProgram(uint32(p))
}

// Release deletes the device's vertex array.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}
