package prism

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDevice is a Device that records every call instead of talking to a
// GPU. Attribute names resolve to locations 0..2, uniforms to 10..14.
type fakeDevice struct {
	next  uint32
	calls []string

	vertexBuffers map[BufferID][]float32
	indexBuffers  map[BufferID][]uint16
	textures      map[TextureID]image.Image
	programs      map[ProgramID]bool
	uniforms      map[Location]mgl32.Mat4
	history       map[Location][]mgl32.Mat4

	missing    map[string]bool
	failBuffer bool
	draws      []int
	frames     int
	pixels     *image.NRGBA
}

var fakeLocations = map[string]Location{
	AttribPosition:    0,
	AttribUV:          1,
	AttribNormal:      2,
	UniformProjection: 10,
	UniformView:       11,
	UniformModel:      12,
	UniformNormal:     13,
	UniformSampler:    14,
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		vertexBuffers: make(map[BufferID][]float32),
		indexBuffers:  make(map[BufferID][]uint16),
		textures:      make(map[TextureID]image.Image),
		programs:      make(map[ProgramID]bool),
		uniforms:      make(map[Location]mgl32.Mat4),
		history:       make(map[Location][]mgl32.Mat4),
		missing:       make(map[string]bool),
	}
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) handle() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) NewVertexBuffer(data []float32) (BufferID, error) {
	if d.failBuffer {
		return 0, errors.New("out of memory")
	}
	id := BufferID(d.handle())
	d.vertexBuffers[id] = data
	return id, nil
}

func (d *fakeDevice) NewIndexBuffer(data []uint16) (BufferID, error) {
	if d.failBuffer {
		return 0, errors.New("out of memory")
	}
	id := BufferID(d.handle())
	d.indexBuffers[id] = data
	return id, nil
}

func (d *fakeDevice) NewProgram(src ShaderSource) (ProgramID, error) {
	if src.Fragment == "bad" {
		return 0, fmt.Errorf("%w: syntax error", ErrShaderCompile)
	}
	id := ProgramID(d.handle())
	d.programs[id] = true
	return id, nil
}

func (d *fakeDevice) NewTexture(img image.Image) (TextureID, error) {
	id := TextureID(d.handle())
	d.textures[id] = img
	return id, nil
}

func (d *fakeDevice) UploadTexture(tex TextureID, img image.Image) error {
	if _, ok := d.textures[tex]; !ok {
		return fmt.Errorf("unknown texture %d", tex)
	}
	d.textures[tex] = img
	return nil
}

func (d *fakeDevice) AttribLocation(_ ProgramID, name string) (Location, bool) {
	if d.missing[name] {
		return -1, false
	}
	loc, ok := fakeLocations[name]
	return loc, ok
}

func (d *fakeDevice) UniformLocation(p ProgramID, name string) (Location, bool) {
	return d.AttribLocation(p, name)
}

func (d *fakeDevice) UseProgram(p ProgramID) { d.record("program %d", p) }

func (d *fakeDevice) BindAttribute(loc Location, buf BufferID, components int) {
	d.record("attrib %d buf %d x%d", loc, buf, components)
}

func (d *fakeDevice) BindIndices(buf BufferID) { d.record("indices %d", buf) }

func (d *fakeDevice) BindTexture(unit int, tex TextureID, sampler Location) {
	d.record("texture %d unit %d sampler %d", tex, unit, sampler)
}

func (d *fakeDevice) UniformMatrix4(loc Location, m mgl32.Mat4) {
	d.uniforms[loc] = m
	d.history[loc] = append(d.history[loc], m)
	d.record("uniform %d", loc)
}

func (d *fakeDevice) DrawIndexed(count int) {
	d.draws = append(d.draws, count)
	d.record("draw %d", count)
}

func (d *fakeDevice) BeginFrame(width, height int, clear Color) {
	d.frames++
	d.record("begin %dx%d", width, height)
}

func (d *fakeDevice) DeleteBuffer(buf BufferID) {
	delete(d.vertexBuffers, buf)
	delete(d.indexBuffers, buf)
	d.record("delete buffer %d", buf)
}

func (d *fakeDevice) DeleteTexture(tex TextureID) {
	delete(d.textures, tex)
	d.record("delete texture %d", tex)
}

func (d *fakeDevice) DeleteProgram(p ProgramID) {
	delete(d.programs, p)
	d.record("delete program %d", p)
}

// readerDevice adds PixelReader to fakeDevice.
type readerDevice struct {
	*fakeDevice
}

func (d readerDevice) ReadPixels() (*image.NRGBA, error) {
	if d.pixels == nil {
		return nil, errors.New("no frame")
	}
	return d.pixels, nil
}

func (d *fakeDevice) reset() { d.calls = d.calls[:0] }

// testMaterial builds a material with the placeholder texture.
func testMaterial(t interface{ Fatal(...any) }, dev *fakeDevice) *Material {
	prog, err := dev.NewProgram(ShaderSource{})
	if err != nil {
		t.Fatal(err)
	}
	tex, err := NewPlaceholderTexture(dev)
	if err != nil {
		t.Fatal(err)
	}
	mat, err := NewMaterial(dev, prog, tex)
	if err != nil {
		t.Fatal(err)
	}
	return mat
}

func testMesh(t interface{ Fatal(...any) }, dev *fakeDevice, data MeshData) *Mesh {
	m, err := NewMesh(dev, data)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func approxEqual(a, b, eps float64) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func approxVec3(a, b mgl32.Vec3, eps float64) bool {
	for i := range 3 {
		if !approxEqual(float64(a[i]), float64(b[i]), eps) {
			return false
		}
	}
	return true
}

func approxMat4(a, b mgl32.Mat4, eps float64) bool {
	for i := range 16 {
		if !approxEqual(float64(a[i]), float64(b[i]), eps) {
			return false
		}
	}
	return true
}
