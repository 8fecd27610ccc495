package prism

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferID, ProgramID and TextureID are opaque GPU resource handles issued by
// a Device. Zero is never a valid handle.
type (
	BufferID  uint32
	ProgramID uint32
	TextureID uint32
)

// Location is a resolved attribute or uniform slot inside a program.
type Location int32

// ShaderSource holds the per-stage sources for a program. Backends document
// which shading language they expect; a backend may ignore a stage it
// evaluates itself.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Device is the GPU backend consumed by meshes, materials and the scene.
// All methods are called from the goroutine running the frame loop.
type Device interface {
	// NewVertexBuffer uploads per-vertex attribute data.
	NewVertexBuffer(data []float32) (BufferID, error)
	// NewIndexBuffer uploads triangle indices.
	NewIndexBuffer(data []uint16) (BufferID, error)
	// NewProgram compiles and links a shader program. Failures wrap
	// ErrShaderCompile or ErrShaderLink.
	NewProgram(src ShaderSource) (ProgramID, error)
	// NewTexture creates a texture initialized with img.
	NewTexture(img image.Image) (TextureID, error)
	// UploadTexture replaces the contents of tex, possibly resizing it.
	UploadTexture(tex TextureID, img image.Image) error

	AttribLocation(p ProgramID, name string) (Location, bool)
	UniformLocation(p ProgramID, name string) (Location, bool)

	UseProgram(p ProgramID)
	BindAttribute(loc Location, buf BufferID, components int)
	BindIndices(buf BufferID)
	BindTexture(unit int, tex TextureID, sampler Location)
	UniformMatrix4(loc Location, m mgl32.Mat4)
	DrawIndexed(count int)

	// BeginFrame resizes the backing viewport to width x height device
	// pixels and clears color and depth.
	BeginFrame(width, height int, clear Color)

	DeleteBuffer(buf BufferID)
	DeleteTexture(tex TextureID)
	DeleteProgram(p ProgramID)
}

// PixelReader is implemented by devices that can read back the last
// rendered frame. Used for screenshots.
type PixelReader interface {
	ReadPixels() (*image.NRGBA, error)
}
