package ebitengine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/prism"
)

func BenchmarkVertexStage_Cube(b *testing.B) {
	data := prism.CubeData()
	in := vertexInput{positions: data.Positions, uvs: data.UVs, normals: data.Normals}
	st := testStage()
	st.mvp = mgl32.Ortho(-4, 4, -2, 2, 0.1, 100).Mul4(mgl32.Translate3D(0, 0, -10)).Mul4(mgl32.HomogRotate3DX(0.4))
	st.normal = mgl32.HomogRotate3DX(0.4)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for j := 0; j+2 < len(data.Indices); j += 3 {
			st.triangle(in, data.Indices[j], data.Indices[j+1], data.Indices[j+2])
		}
	}
}
