package prism

import (
	"fmt"
)

// MeshData is the CPU-side description of a mesh before upload. Positions and
// Normals hold three floats per vertex, UVs two. UVs use a bottom-left origin.
type MeshData struct {
	Positions []float32
	UVs       []float32
	Normals   []float32
	Indices   []uint16
}

// VertexLen returns the number of vertices described by Positions.
func (d MeshData) VertexLen() int {
	return len(d.Positions) / 3
}

// Validate checks that every attribute describes the same number of
// vertices and that all indices reference an existing vertex.
func (d MeshData) Validate() error {
	if len(d.Positions) == 0 || len(d.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats", ErrInvalidMesh, len(d.Positions))
	}
	n := d.VertexLen()
	if len(d.UVs) != n*2 {
		return fmt.Errorf("%w: %d uv floats for %d vertices", ErrInvalidMesh, len(d.UVs), n)
	}
	if len(d.Normals) != n*3 {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalidMesh, len(d.Normals), n)
	}
	if len(d.Indices) == 0 || len(d.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrInvalidMesh, len(d.Indices))
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d = %d out of range", ErrInvalidMesh, i, idx)
		}
	}
	return nil
}

// Mesh is GPU-resident vertex and index data for one shape. It is immutable
// after construction and may be shared by any number of entities.
type Mesh struct {
	position BufferID
	uv       BufferID
	normal   BufferID
	index    BufferID

	vertexCount int
	refs        int
}

// NewMesh validates data and uploads it to dev.
func NewMesh(dev Device, data MeshData) (*Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	m := &Mesh{vertexCount: len(data.Indices)}

	var err error
	if m.position, err = dev.NewVertexBuffer(data.Positions); err != nil {
		return nil, fmt.Errorf("upload positions: %w", err)
	}
	if m.uv, err = dev.NewVertexBuffer(data.UVs); err != nil {
		m.delete(dev)
		return nil, fmt.Errorf("upload uvs: %w", err)
	}
	if m.normal, err = dev.NewVertexBuffer(data.Normals); err != nil {
		m.delete(dev)
		return nil, fmt.Errorf("upload normals: %w", err)
	}
	if m.index, err = dev.NewIndexBuffer(data.Indices); err != nil {
		m.delete(dev)
		return nil, fmt.Errorf("upload indices: %w", err)
	}
	return m, nil
}

// VertexCount returns the number of indices submitted per draw.
func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

// bind attaches the mesh buffers to the material's attribute slots.
func (m *Mesh) bind(dev Device, mat *Material) {
	dev.BindAttribute(mat.attribs.position, m.position, 3)
	dev.BindAttribute(mat.attribs.uv, m.uv, 2)
	dev.BindAttribute(mat.attribs.normal, m.normal, 3)
	dev.BindIndices(m.index)
}

func (m *Mesh) retain() { m.refs++ }

// release drops one reference and frees the buffers with the last one.
func (m *Mesh) release(dev Device) {
	m.refs--
	if m.refs == 0 {
		m.delete(dev)
	}
}

func (m *Mesh) delete(dev Device) {
	for _, b := range []*BufferID{&m.position, &m.uv, &m.normal, &m.index} {
		if *b != 0 {
			dev.DeleteBuffer(*b)
			*b = 0
		}
	}
}

// QuadData returns a unit quad (2x2) in the XY plane facing +Z.
func QuadData() MeshData {
	return MeshData{
		Positions: []float32{
			-1, -1, 0,
			1, -1, 0,
			1, 1, 0,
			-1, 1, 0,
		},
		UVs: []float32{
			0, 0,
			1, 0,
			1, 1,
			0, 1,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// CubeData returns a 2x2x2 cube centered on the origin with per-face normals
// and UVs (24 vertices, 36 indices).
func CubeData() MeshData {
	return MeshData{
		Positions: []float32{
			// Front face
			-1, -1, 1,
			1, -1, 1,
			1, 1, 1,
			-1, 1, 1,
			// Back face
			-1, -1, -1,
			-1, 1, -1,
			1, 1, -1,
			1, -1, -1,
			// Top face
			-1, 1, -1,
			-1, 1, 1,
			1, 1, 1,
			1, 1, -1,
			// Bottom face
			-1, -1, -1,
			1, -1, -1,
			1, -1, 1,
			-1, -1, 1,
			// Right face
			1, -1, -1,
			1, 1, -1,
			1, 1, 1,
			1, -1, 1,
			// Left face
			-1, -1, -1,
			-1, -1, 1,
			-1, 1, 1,
			-1, 1, -1,
		},
		UVs: []float32{
			0, 0, 1, 0, 1, 1, 0, 1,
			0, 0, 1, 0, 1, 1, 0, 1,
			0, 0, 1, 0, 1, 1, 0, 1,
			0, 0, 1, 0, 1, 1, 0, 1,
			0, 0, 1, 0, 1, 1, 0, 1,
			0, 0, 1, 0, 1, 1, 0, 1,
		},
		Normals: []float32{
			0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1,
			0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1,
			0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0,
			0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1, 0,
			1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0,
			-1, 0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0,
		},
		Indices: []uint16{
			0, 1, 2, 0, 2, 3, // front
			4, 5, 6, 4, 6, 7, // back
			8, 9, 10, 8, 10, 11, // top
			12, 13, 14, 12, 14, 15, // bottom
			16, 17, 18, 16, 18, 19, // right
			20, 21, 22, 20, 22, 23, // left
		},
	}
}
