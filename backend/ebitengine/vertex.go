package ebitengine

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Fixed lighting, matching the OpenGL backend's default program.
var (
	ambientLight     = mgl32.Vec3{0.3, 0.3, 0.3}
	directionalColor = mgl32.Vec3{1, 1, 1}
	lightDirection   = mgl32.Vec3{0.85, 0.8, 0.75}.Normalize()
)

// vertexInput is the bound attribute data of one draw.
type vertexInput struct {
	positions []float32
	uvs       []float32
	normals   []float32
}

// triangle is one screen-space triangle waiting for Flush.
type triangle struct {
	verts   [3]ebiten.Vertex
	depth   float32
	texture *ebiten.Image
	shader  *ebiten.Shader
	seq     int
}

// vertexStage transforms vertices the way the GLSL vertex shader does:
// clip = P * V * M * position, lighting from the normal matrix.
type vertexStage struct {
	mvp    mgl32.Mat4
	normal mgl32.Mat4
	width  float32
	height float32
	texW   float32
	texH   float32
}

// triangle transforms the vertices at indices a, b, c. ok is false if the
// triangle is back-facing, crosses the near or far plane, or references
// missing data.
func (st *vertexStage) triangle(in vertexInput, a, b, c uint16) (tri triangle, ok bool) {
	var ndc [3]mgl32.Vec3
	for i, idx := range [3]uint16{a, b, c} {
		p, ok := vec3At(in.positions, idx)
		if !ok {
			return triangle{}, false
		}
		clip := st.mvp.Mul4x1(p.Vec4(1))
		if clip[3] <= 0 {
			return triangle{}, false
		}
		ndc[i] = clip.Vec3().Mul(1 / clip[3])
		if ndc[i][2] < -1 || ndc[i][2] > 1 {
			return triangle{}, false
		}

		uv, _ := vec2At(in.uvs, idx)
		n, _ := vec3At(in.normals, idx)
		light := st.lighting(n)

		tri.verts[i] = ebiten.Vertex{
			DstX:   (ndc[i][0] + 1) / 2 * st.width,
			DstY:   (1 - ndc[i][1]) / 2 * st.height,
			SrcX:   uv[0] * st.texW,
			SrcY:   (1 - uv[1]) * st.texH,
			ColorR: light[0],
			ColorG: light[1],
			ColorB: light[2],
			ColorA: 1,
		}
	}
	if !frontFacing(ndc[0], ndc[1], ndc[2]) {
		return triangle{}, false
	}
	tri.depth = (ndc[0][2] + ndc[1][2] + ndc[2][2]) / 3
	return tri, true
}

// lighting returns ambient plus directional light for a model-space normal,
// clamped to 1 per channel.
func (st *vertexStage) lighting(n mgl32.Vec3) mgl32.Vec3 {
	tn := st.normal.Mul4x1(n.Vec4(0)).Vec3()
	directional := max(tn.Dot(lightDirection), 0)
	l := ambientLight.Add(directionalColor.Mul(directional))
	return mgl32.Vec3{min(l[0], 1), min(l[1], 1), min(l[2], 1)}
}

// frontFacing reports whether the triangle winds counter-clockwise in
// normalized device coordinates.
func frontFacing(a, b, c mgl32.Vec3) bool {
	return (b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1]) > 0
}

func vec3At(data []float32, i uint16) (mgl32.Vec3, bool) {
	o := int(i) * 3
	if o+3 > len(data) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{data[o], data[o+1], data[o+2]}, true
}

func vec2At(data []float32, i uint16) (mgl32.Vec2, bool) {
	o := int(i) * 2
	if o+2 > len(data) {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{data[o], data[o+1]}, true
}
