// Package ebitengine renders prism scenes with Ebitengine.
//
// Ebitengine exposes fragment shaders (Kage) but no programmable vertex
// stage, so the vertex transform runs on the CPU: each indexed draw is
// expanded into screen-space triangles, back faces are culled, and the
// frame's triangles are sorted far to near before being submitted with
// DrawTrianglesShader. Per-vertex lighting is passed to the fragment shader
// as the vertex color.
package ebitengine

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/prism"
)

// Attribute and uniform slots understood by the CPU vertex stage.
const (
	slotPosition = iota
	slotUV
	slotNormal
	numAttribSlots
)

const (
	slotProjection = iota
	slotView
	slotModel
	slotNormalMatrix
	slotSampler
	numUniformSlots
)

var attribSlots = map[string]prism.Location{
	prism.AttribPosition: slotPosition,
	prism.AttribUV:       slotUV,
	prism.AttribNormal:   slotNormal,
}

var uniformSlots = map[string]prism.Location{
	prism.UniformProjection: slotProjection,
	prism.UniformView:       slotView,
	prism.UniformModel:      slotModel,
	prism.UniformNormal:     slotNormalMatrix,
	prism.UniformSampler:    slotSampler,
}

// maxBatchVertices bounds one DrawTrianglesShader call (16-bit indices).
const maxBatchVertices = 1 << 15

// Device implements prism.Device on Ebitengine. Vertex and index buffers
// live in host memory; textures are ebiten images and programs are Kage
// shaders. Call SetTarget before each frame and Flush after it.
type Device struct {
	next     uint32
	floats   map[prism.BufferID][]float32
	indices  map[prism.BufferID][]uint16
	textures map[prism.TextureID]*ebiten.Image
	shaders  map[prism.ProgramID]*ebiten.Shader

	// Bound state.
	program  prism.ProgramID
	attribs  [numAttribSlots]prism.BufferID
	elements prism.BufferID
	texture  prism.TextureID
	uniforms [numUniformSlots]mgl32.Mat4

	target  *ebiten.Image
	width   int
	height  int
	pending []triangle
	seq     int

	verts []ebiten.Vertex
	inds  []uint16
}

var (
	_ prism.Device      = (*Device)(nil)
	_ prism.PixelReader = (*Device)(nil)
)

// NewDevice creates an empty device.
func NewDevice() *Device {
	return &Device{
		floats:   make(map[prism.BufferID][]float32),
		indices:  make(map[prism.BufferID][]uint16),
		textures: make(map[prism.TextureID]*ebiten.Image),
		shaders:  make(map[prism.ProgramID]*ebiten.Shader),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// SetTarget sets the image the next frame draws into.
func (d *Device) SetTarget(img *ebiten.Image) {
	d.target = img
}

func (d *Device) NewVertexBuffer(data []float32) (prism.BufferID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("vertex buffer: no data")
	}
	id := prism.BufferID(d.handle())
	d.floats[id] = append([]float32(nil), data...)
	return id, nil
}

func (d *Device) NewIndexBuffer(data []uint16) (prism.BufferID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("index buffer: no data")
	}
	id := prism.BufferID(d.handle())
	d.indices[id] = append([]uint16(nil), data...)
	return id, nil
}

// NewProgram compiles src.Fragment as a Kage shader. The vertex stage is
// fixed, so src.Vertex is ignored. An empty fragment source selects the
// default shader.
func (d *Device) NewProgram(src prism.ShaderSource) (prism.ProgramID, error) {
	frag := src.Fragment
	if frag == "" {
		frag = fragmentShaderSource
	}
	shader, err := ebiten.NewShader([]byte(frag))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", prism.ErrShaderCompile, err)
	}
	id := prism.ProgramID(d.handle())
	d.shaders[id] = shader
	return id, nil
}

func (d *Device) NewTexture(img image.Image) (prism.TextureID, error) {
	if img.Bounds().Empty() {
		return 0, fmt.Errorf("new texture: empty image")
	}
	id := prism.TextureID(d.handle())
	d.textures[id] = ebiten.NewImageFromImage(img)
	return id, nil
}

// UploadTexture replaces the texture's image. The handle stays valid.
func (d *Device) UploadTexture(tex prism.TextureID, img image.Image) error {
	old, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("upload texture: unknown texture %d", tex)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("upload texture: empty image")
	}
	d.textures[tex] = ebiten.NewImageFromImage(img)
	old.Deallocate()
	return nil
}

// AttribLocation resolves the standard attribute names to vertex stage
// slots. Other names are missing.
func (d *Device) AttribLocation(p prism.ProgramID, name string) (prism.Location, bool) {
	if _, ok := d.shaders[p]; !ok {
		return 0, false
	}
	loc, ok := attribSlots[name]
	return loc, ok
}

// UniformLocation resolves the standard uniform names.
func (d *Device) UniformLocation(p prism.ProgramID, name string) (prism.Location, bool) {
	if _, ok := d.shaders[p]; !ok {
		return 0, false
	}
	loc, ok := uniformSlots[name]
	return loc, ok
}

func (d *Device) UseProgram(p prism.ProgramID) { d.program = p }

func (d *Device) BindAttribute(loc prism.Location, buf prism.BufferID, _ int) {
	if loc >= 0 && int(loc) < numAttribSlots {
		d.attribs[loc] = buf
	}
}

func (d *Device) BindIndices(buf prism.BufferID) { d.elements = buf }

// BindTexture binds tex. Only unit 0 exists.
func (d *Device) BindTexture(unit int, tex prism.TextureID, _ prism.Location) {
	if unit == 0 {
		d.texture = tex
	}
}

func (d *Device) UniformMatrix4(loc prism.Location, m mgl32.Mat4) {
	if loc >= 0 && int(loc) < numUniformSlots {
		d.uniforms[loc] = m
	}
}

// DrawIndexed runs the vertex stage over the bound buffers and queues the
// surviving triangles for Flush.
func (d *Device) DrawIndexed(count int) {
	tex := d.textures[d.texture]
	shader := d.shaders[d.program]
	idx := d.indices[d.elements]
	if tex == nil || shader == nil || count > len(idx) {
		return
	}

	b := tex.Bounds()
	st := vertexStage{
		mvp:    d.uniforms[slotProjection].Mul4(d.uniforms[slotView]).Mul4(d.uniforms[slotModel]),
		normal: d.uniforms[slotNormalMatrix],
		width:  float32(d.width),
		height: float32(d.height),
		texW:   float32(b.Dx()),
		texH:   float32(b.Dy()),
	}
	in := vertexInput{
		positions: d.floats[d.attribs[slotPosition]],
		uvs:       d.floats[d.attribs[slotUV]],
		normals:   d.floats[d.attribs[slotNormal]],
	}
	for i := 0; i+2 < count; i += 3 {
		tri, ok := st.triangle(in, idx[i], idx[i+1], idx[i+2])
		if !ok {
			continue
		}
		tri.texture = tex
		tri.shader = shader
		tri.seq = d.seq
		d.seq++
		d.pending = append(d.pending, tri)
	}
}

// BeginFrame clears the target. The target's size is fixed by the host's
// Layout, so width and height only drive the vertex stage's viewport.
func (d *Device) BeginFrame(width, height int, clear prism.Color) {
	d.width, d.height = width, height
	d.pending = d.pending[:0]
	d.seq = 0
	if d.target != nil {
		d.target.Fill(clear.RGBA())
	}
}

// Flush draws every queued triangle, farthest first, in as few
// DrawTrianglesShader calls as the texture and shader changes allow.
func (d *Device) Flush() {
	if d.target == nil || len(d.pending) == 0 {
		d.pending = d.pending[:0]
		return
	}
	sort.SliceStable(d.pending, func(i, j int) bool {
		a, b := &d.pending[i], &d.pending[j]
		if a.depth != b.depth {
			return a.depth > b.depth
		}
		return a.seq < b.seq
	})

	var (
		tex    *ebiten.Image
		shader *ebiten.Shader
	)
	for i := range d.pending {
		t := &d.pending[i]
		if t.texture != tex || t.shader != shader || len(d.verts)+3 > maxBatchVertices {
			d.submit(tex, shader)
			tex, shader = t.texture, t.shader
		}
		base := uint16(len(d.verts))
		d.verts = append(d.verts, t.verts[:]...)
		d.inds = append(d.inds, base, base+1, base+2)
	}
	d.submit(tex, shader)
	d.pending = d.pending[:0]
}

func (d *Device) submit(tex *ebiten.Image, shader *ebiten.Shader) {
	if len(d.verts) > 0 && tex != nil && shader != nil {
		var op ebiten.DrawTrianglesShaderOptions
		op.Images[0] = tex
		d.target.DrawTrianglesShader(d.verts, d.inds, shader, &op)
	}
	d.verts = d.verts[:0]
	d.inds = d.inds[:0]
}

// ReadPixels flushes queued triangles and reads the target back as
// straight-alpha RGBA.
func (d *Device) ReadPixels() (*image.NRGBA, error) {
	if d.target == nil {
		return nil, fmt.Errorf("read pixels: no target")
	}
	d.Flush()

	b := d.target.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	d.target.ReadPixels(pixels)

	// Ebitengine stores premultiplied alpha.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		c := color.NRGBAModel.Convert(color.RGBA{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]}).(color.NRGBA)
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img, nil
}

func (d *Device) DeleteBuffer(buf prism.BufferID) {
	delete(d.floats, buf)
	delete(d.indices, buf)
}

func (d *Device) DeleteTexture(tex prism.TextureID) {
	if img, ok := d.textures[tex]; ok {
		img.Deallocate()
		delete(d.textures, tex)
	}
}

func (d *Device) DeleteProgram(p prism.ProgramID) {
	if s, ok := d.shaders[p]; ok {
		s.Deallocate()
		delete(d.shaders, p)
	}
}
