package prism

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vec3(data []float32, i uint16) (mgl32.Vec3, bool) {
	o := int(i) * 3
	if o+3 > len(data) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{data[o], data[o+1], data[o+2]}, true
}

func TestMeshDataValidate(t *testing.T) {
	quad := QuadData()
	tests := []struct {
		name   string
		mutate func(d *MeshData)
		ok     bool
	}{
		{"quad", func(d *MeshData) {}, true},
		{"no positions", func(d *MeshData) { d.Positions = nil }, false},
		{"partial position", func(d *MeshData) { d.Positions = d.Positions[:11] }, false},
		{"short uvs", func(d *MeshData) { d.UVs = d.UVs[:6] }, false},
		{"long normals", func(d *MeshData) { d.Normals = append(d.Normals, 0, 0, 1) }, false},
		{"no indices", func(d *MeshData) { d.Indices = nil }, false},
		{"partial triangle", func(d *MeshData) { d.Indices = d.Indices[:4] }, false},
		{"index out of range", func(d *MeshData) { d.Indices = []uint16{0, 1, 4} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := MeshData{
				Positions: append([]float32(nil), quad.Positions...),
				UVs:       append([]float32(nil), quad.UVs...),
				Normals:   append([]float32(nil), quad.Normals...),
				Indices:   append([]uint16(nil), quad.Indices...),
			}
			tt.mutate(&d)
			err := d.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("err = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestBuiltinMeshes(t *testing.T) {
	tests := []struct {
		name     string
		data     MeshData
		vertices int
		indices  int
	}{
		{"quad", QuadData(), 4, 6},
		{"cube", CubeData(), 24, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.data.Validate(); err != nil {
				t.Fatal(err)
			}
			if tt.data.VertexLen() != tt.vertices {
				t.Errorf("VertexLen = %d, want %d", tt.data.VertexLen(), tt.vertices)
			}
			if len(tt.data.Indices) != tt.indices {
				t.Errorf("indices = %d, want %d", len(tt.data.Indices), tt.indices)
			}
		})
	}
}

func TestCubeFacesWindOutward(t *testing.T) {
	d := CubeData()
	for i := 0; i < len(d.Indices); i += 3 {
		a, _ := vec3(d.Positions, d.Indices[i])
		b, _ := vec3(d.Positions, d.Indices[i+1])
		c, _ := vec3(d.Positions, d.Indices[i+2])
		n, _ := vec3(d.Normals, d.Indices[i])
		face := b.Sub(a).Cross(c.Sub(a))
		if face.Dot(n) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", i/3, n)
		}
	}
}

func TestNewMesh(t *testing.T) {
	dev := newFakeDevice()
	data := QuadData()
	m, err := NewMesh(dev, data)
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
	if len(dev.vertexBuffers) != 3 || len(dev.indexBuffers) != 1 {
		t.Fatalf("buffers = %d vertex, %d index; want 3, 1", len(dev.vertexBuffers), len(dev.indexBuffers))
	}
	if got := dev.vertexBuffers[m.uv]; len(got) != len(data.UVs) {
		t.Errorf("uv buffer has %d floats, want %d", len(got), len(data.UVs))
	}
}

func TestNewMeshInvalidUploadsNothing(t *testing.T) {
	dev := newFakeDevice()
	_, err := NewMesh(dev, MeshData{Positions: []float32{0, 0, 0}})
	if !errors.Is(err, ErrInvalidMesh) {
		t.Fatalf("err = %v, want ErrInvalidMesh", err)
	}
	if len(dev.vertexBuffers) != 0 {
		t.Error("invalid mesh uploaded buffers")
	}
}

func TestNewMeshUploadFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failBuffer = true
	if _, err := NewMesh(dev, QuadData()); err == nil {
		t.Fatal("expected error")
	}
	if len(dev.vertexBuffers)+len(dev.indexBuffers) != 0 {
		t.Error("failed upload leaked buffers")
	}
}

func TestMeshReleaseFreesWithLastReference(t *testing.T) {
	dev := newFakeDevice()
	m := testMesh(t, dev, QuadData())
	m.retain()
	m.retain()

	m.release(dev)
	if len(dev.vertexBuffers) != 3 {
		t.Fatal("buffers freed while still referenced")
	}
	m.release(dev)
	if len(dev.vertexBuffers)+len(dev.indexBuffers) != 0 {
		t.Error("buffers not freed after last release")
	}
}
